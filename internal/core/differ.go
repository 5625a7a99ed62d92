package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"buildlock/internal/ports"
	"buildlock/internal/types"
)

const (
	FieldVersion             = "version"
	FieldVersionProject      = "version (expected project version)"
	FieldVersionSnapshot     = "version (allowing snapshot version)"
	FieldIntegrity           = "integrity"
	FieldScope               = "scope"
	FieldOptional            = "optional"
	FieldDependencies        = "dependencies"
	FieldGroupID             = "groupId"
	FieldArtifactID          = "artifactId"
	differentMessageTemplate = "Expected %s but found %s, wrong %s"
)

// Lockable is the view the set reconciliation needs of an entity.
type Lockable interface {
	Identified
	StringWithoutIntegrity() string
}

// fieldComparator returns the possibly rewritten expected entity together
// with the names of the fields that differ.
type fieldComparator[T Lockable] func(ctx context.Context, expected T, actual T) (T, []string)

// Differ compares locked entities with a fresh resolution under a policy.
type Differ struct {
	Policy         ports.PolicyPort
	ProjectVersion string
}

func NewDiffer(policy ports.PolicyPort, projectVersion string) Differ {
	return Differ{
		Policy:         policy,
		ProjectVersion: projectVersion,
	}
}

func (d Differ) DiffDependencies(ctx context.Context, locked Dependencies, actual Dependencies) types.DiffReport {
	return diffSet(ctx, d, locked, actual, d.compareDependency)
}

func (d Differ) DiffPlugins(ctx context.Context, locked Plugins, actual Plugins) types.DiffReport {
	return diffSet(ctx, d, locked, actual, d.comparePlugin)
}

func (d Differ) DiffExtensions(ctx context.Context, locked Extensions, actual Extensions) types.DiffReport {
	return diffSet(ctx, d, locked, actual, d.compareExtension)
}

func (d Differ) DiffArtifacts(ctx context.Context, locked Artifacts, actual Artifacts) types.DiffReport {
	return diffSet(ctx, d, locked, actual, d.compareArtifact)
}

func diffSet[T Lockable](ctx context.Context, d Differ, locked LockedEntities[T], actual LockedEntities[T], compare fieldComparator[T]) types.DiffReport {
	report := types.DiffReport{}
	logger := log.Ctx(ctx)
	for _, expected := range locked.All() {
		id := expected.Identifier()
		found, ok := actual.By(id)
		if !ok {
			if d.Policy.AllowMissing(id) {
				logger.Info().Str("artifact", id.String()).Msg("missing artifact allowed by policy")
				continue
			}
			report.Missing = append(report.Missing, id.String())
			continue
		}
		updated, fields := compare(ctx, expected, found)
		if len(fields) > 0 {
			report.Different = append(report.Different, fmt.Sprintf(
				differentMessageTemplate,
				updated.StringWithoutIntegrity(),
				found.StringWithoutIntegrity(),
				strings.Join(fields, ", "),
			))
		}
	}
	for _, found := range actual.All() {
		id := found.Identifier()
		if _, ok := locked.By(id); ok {
			continue
		}
		if d.Policy.AllowSuperfluous(id) {
			logger.Info().Str("artifact", id.String()).Msg("superfluous artifact allowed by policy")
			continue
		}
		report.Extraneous = append(report.Extraneous, found.StringWithoutIntegrity())
	}
	return report
}

// compareArtifact applies the version policy first; the remaining fields are
// compared against the rewritten expected artifact.
func (d Differ) compareArtifact(ctx context.Context, expected types.Artifact, actual types.Artifact) (types.Artifact, []string) {
	updated, fields := d.compareVersion(ctx, expected, actual)
	if updated.EqualIgnoreVersion(actual) {
		return updated, fields
	}
	updated, integrityFields := d.compareIntegrity(ctx, updated, actual)
	return updated, append(fields, integrityFields...)
}

func (d Differ) compareDependency(ctx context.Context, expected types.Dependency, actual types.Dependency) (types.Dependency, []string) {
	updated, fields := d.compareArtifact(ctx, expected.Artifact, actual.Artifact)
	if updated.Scope != actual.Scope {
		fields = append(fields, FieldScope)
	}
	if updated.Optional != actual.Optional {
		fields = append(fields, FieldOptional)
	}
	return types.Dependency{Artifact: updated}, fields
}

func (d Differ) compareExtension(ctx context.Context, expected types.Extension, actual types.Extension) (types.Extension, []string) {
	updated, fields := d.compareArtifact(ctx, expected.Artifact, actual.Artifact)
	return types.Extension{Artifact: updated}, fields
}

func (d Differ) comparePlugin(ctx context.Context, expected types.Plugin, actual types.Plugin) (types.Plugin, []string) {
	updated, fields := d.compareArtifact(ctx, expected.Artifact, actual.Artifact)
	nested := d.DiffArtifacts(ctx, NewArtifacts(expected.Dependencies), NewArtifacts(actual.Dependencies))
	if !nested.Equal() {
		fields = append(fields, FieldDependencies)
		log.Ctx(ctx).Info().
			Strs("lines", nested.Lines()).
			Msgf("dependencies for %s", expected.Identifier())
	}
	return types.Plugin{Artifact: updated, Dependencies: expected.Dependencies}, fields
}

// compareVersion returns the expected artifact as the version policy sees it
// (useProjectVersion substitutes the project version) and the version field
// name when the policy is violated.
func (d Differ) compareVersion(ctx context.Context, expected types.Artifact, actual types.Artifact) (types.Artifact, []string) {
	id := expected.Identifier()
	logger := log.Ctx(ctx)
	switch d.Policy.VersionPolicy(id) {
	case types.VersionPolicyIgnore:
		if expected.Version != actual.Version {
			logger.Info().
				Str("artifact", id.String()).
				Str("expected", expected.Version).
				Str("actual", actual.Version).
				Msg("version mismatch ignored by policy")
		}
		return expected, nil
	case types.VersionPolicyUseProjectVersion:
		logger.Info().
			Str("artifact", id.String()).
			Str("locked", expected.Version).
			Str("project", d.ProjectVersion).
			Msg("expecting project version")
		updated := expected.WithVersion(d.ProjectVersion)
		if updated.Version == actual.Version {
			return updated, nil
		}
		return updated, []string{FieldVersionProject}
	case types.VersionPolicySnapshot:
		if SnapshotMatch(expected.Version, actual.Version) {
			return expected, nil
		}
		return expected, []string{FieldVersionSnapshot}
	default:
		if expected.Version == actual.Version {
			return expected, nil
		}
		return expected, []string{FieldVersion}
	}
}

// compareIntegrity accepts the actual digest into the expected artifact when
// the integrity policy ignores a mismatch.
func (d Differ) compareIntegrity(ctx context.Context, expected types.Artifact, actual types.Artifact) (types.Artifact, []string) {
	if expected.Integrity.Equal(actual.Integrity) {
		return expected, nil
	}
	id := expected.Identifier()
	if d.Policy.IntegrityPolicy(id) == types.IntegrityPolicyIgnore {
		log.Ctx(ctx).Info().
			Str("artifact", id.String()).
			Msg("integrity mismatch ignored by policy")
		return expected.WithIntegrity(actual.Integrity), nil
	}
	return expected, []string{FieldIntegrity}
}
