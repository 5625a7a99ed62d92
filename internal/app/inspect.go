package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildlock/internal/core"
	"buildlock/internal/types"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	lockPath := strings.TrimSpace(req.LockFile)
	if lockPath == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is required")
	}
	locked, err := s.LockFiles(req.Format).Read(lockPath)
	if err != nil {
		return InspectResult{}, err
	}
	locked = core.CanonicalProject(locked)

	counter := integrityCounter{}
	counter.add(locked.Pom)
	var kinds []InspectKindSummary
	var deps []types.Artifact
	for _, dep := range locked.Dependencies {
		deps = append(deps, dep.Artifact)
	}
	kinds = append(kinds, summarizeKind(types.EntityKindDependencies, deps, counter))

	var plugins []types.Artifact
	for _, plugin := range locked.Plugins {
		plugins = append(plugins, plugin.Artifact)
		for _, dep := range plugin.Dependencies {
			counter.add(dep.Integrity)
		}
	}
	kinds = append(kinds, summarizeKind(types.EntityKindPlugins, plugins, counter))

	var extensions []types.Artifact
	for _, extension := range locked.Extensions {
		extensions = append(extensions, extension.Artifact)
	}
	kinds = append(kinds, summarizeKind(types.EntityKindExtensions, extensions, counter))

	var parents []types.Artifact
	for _, parent := range locked.Parents {
		parents = append(parents, parent.Artifact)
	}
	kinds = append(kinds, summarizeKind(types.EntityKindParents, parents, counter))

	return InspectResult{
		Project:         locked.Project,
		LockFileVersion: locked.LockFileVersion,
		Pom:             locked.Pom,
		Kinds:           kinds,
		Integrity:       counter.summaries(),
		Config:          locked.Config,
		Environment:     locked.Environment,
		Fingerprint:     core.Fingerprint(locked),
	}, nil
}

type integrityCounter map[types.IntegrityKind]int

func (c integrityCounter) add(integrity types.Integrity) {
	kind := integrity.Kind
	if kind == "" {
		kind = types.IntegrityKindIgnored
	}
	c[kind]++
}

func (c integrityCounter) summaries() []InspectIntegritySummary {
	var out []InspectIntegritySummary
	for _, kind := range []types.IntegrityKind{
		types.IntegrityKindCalculated,
		types.IntegrityKindFolder,
		types.IntegrityKindIgnored,
	} {
		if c[kind] == 0 {
			continue
		}
		out = append(out, InspectIntegritySummary{Kind: kind, Count: c[kind]})
	}
	return out
}

func summarizeKind(kind types.EntityKind, artifacts []types.Artifact, counter integrityCounter) InspectKindSummary {
	summary := InspectKindSummary{Kind: kind, Count: len(artifacts)}
	for _, artifact := range artifacts {
		counter.add(artifact.Integrity)
		summary.Artifacts = append(summary.Artifacts, artifact.String())
	}
	return summary
}
