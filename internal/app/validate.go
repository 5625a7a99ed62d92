package app

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Validate reads the lock file and compiles the policies without comparing
// anything, so structural problems surface before a check runs.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	lockPath := strings.TrimSpace(req.LockFile)
	if lockPath == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is required")
	}
	locked, err := s.LockFiles(req.Format).Read(lockPath)
	if err != nil {
		return ValidateResult{}, err
	}
	assert.NotEmpty(ctx, locked.LockFileVersion, "lockFileVersion must be set")
	filters, err := s.loadFilters(req.PolicyFile, req.Policies)
	if err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		Project:         locked.Project,
		LockFileVersion: locked.LockFileVersion,
		Dependencies:    len(locked.Dependencies),
		Plugins:         len(locked.Plugins),
		Extensions:      len(locked.Extensions),
		Parents:         len(locked.Parents),
		PolicyRules:     filters.Len(),
	}, nil
}
