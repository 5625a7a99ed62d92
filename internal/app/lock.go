package app

import (
	"context"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildlock/internal/core"
	"buildlock/internal/types"
)

// Lock records the current resolution, replacing any existing lock file.
func (s Service) Lock(ctx context.Context, req LockRequest) (LockResult, error) {
	lockPath := strings.TrimSpace(req.LockFile)
	if lockPath == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is required")
	}
	resolutionPath := strings.TrimSpace(req.Resolution)
	if resolutionPath == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolution path is required")
	}
	project, err := s.Resolution.LoadResolution(ctx, resolutionPath)
	if err != nil {
		return LockResult{}, err
	}
	assert.NotEmpty(ctx, project.Project.GroupID, "project groupId must be set")
	assert.NotEmpty(ctx, project.Project.ArtifactID, "project artifactId must be set")

	config := req.Config
	if config.ChecksumAlgorithm == "" {
		config.ChecksumAlgorithm = types.ChecksumAlgorithmSHA512
	}
	project = applyLockConfig(project, config)
	project.LockFileVersion = types.CurrentLockFileVersion
	if s.Environment != nil {
		project.Environment = s.Environment()
	}
	project = core.CanonicalProject(project)

	written, err := s.LockFiles(req.Format).Write(lockPath, project)
	if err != nil {
		return LockResult{}, err
	}
	fingerprint := core.Fingerprint(project)
	log.Ctx(ctx).Info().
		Str("path", lockPath).
		Bool("written", written).
		Str("fingerprint", fingerprint).
		Int("dependencies", len(project.Dependencies)).
		Msg("lock file updated")
	return LockResult{
		Path:         lockPath,
		Dependencies: len(project.Dependencies),
		Plugins:      len(project.Plugins),
		Extensions:   len(project.Extensions),
		Parents:      len(project.Parents),
		Written:      written,
		Fingerprint:  fingerprint,
	}, nil
}

// applyLockConfig drops the entity kinds the config excludes and records the
// config itself.
func applyLockConfig(project types.LockedProject, config types.LockConfig) types.LockedProject {
	project.Config = config
	if !config.IncludePlugins {
		project.Plugins = nil
	}
	if !config.IncludeExtensions {
		project.Extensions = nil
	}
	if !config.IncludeParents {
		project.Parents = nil
	}
	return project
}
