package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildlock/internal/core"
	"buildlock/internal/policies"
	"buildlock/internal/types"
)

// Check compares the current resolution with the lock file. Only the entity
// kinds recorded as included in the lock file are compared.
func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	lockPath := strings.TrimSpace(req.LockFile)
	if lockPath == "" {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is required")
	}
	resolutionPath := strings.TrimSpace(req.Resolution)
	if resolutionPath == "" {
		return CheckResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution path is required")
	}
	locked, err := s.LockFiles(req.Format).Read(lockPath)
	if err != nil {
		return CheckResult{}, err
	}
	filters, err := s.loadFilters(req.PolicyFile, req.Policies)
	if err != nil {
		return CheckResult{}, err
	}
	actual, err := s.Resolution.LoadResolution(ctx, resolutionPath)
	if err != nil {
		return CheckResult{}, err
	}

	differ := core.NewProjectDiffer(filters, core.DiffOptionsFromConfig(locked.Config))
	diff := differ.Diff(ctx, locked, actual)
	if diff.Equal() {
		log.Ctx(ctx).Info().Str("path", lockPath).Msg("lock file matches the resolution")
		return CheckResult{Diff: diff}, nil
	}
	if req.AllowValidationFailure || locked.Config.AllowValidationFailure {
		log.Ctx(ctx).Warn().Str("path", lockPath).Msg("lock file mismatch allowed by configuration")
		return CheckResult{Diff: diff, Allowed: true}, nil
	}
	return CheckResult{Diff: diff}, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("lock file mismatch:\n" + diff.Render())
}

// loadFilters compiles the policy file rules followed by the inline rules.
func (s Service) loadFilters(policyFile string, inline []types.PolicyRule) (policies.Filters, error) {
	var rules []types.PolicyRule
	if strings.TrimSpace(policyFile) != "" {
		loaded, err := s.PolicySource.LoadPolicies(policyFile)
		if err != nil {
			return policies.Filters{}, err
		}
		rules = append(rules, loaded...)
	}
	rules = append(rules, inline...)
	return policies.NewFilters(rules)
}
