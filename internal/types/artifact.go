package types

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const (
	DefaultArtifactType = "jar"
	DefaultScope        = "compile"
)

// ArtifactIdentifier is the identity key used to match a locked entity with
// its counterpart in a fresh resolution. Version is deliberately not part of
// it.
type ArtifactIdentifier struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Type       string
}

// NewArtifactIdentifier validates the required coordinates and defaults the
// type to "jar". Coordinates may not contain ':' since it separates them in
// the canonical key.
func NewArtifactIdentifier(groupID string, artifactID string, classifier string, artifactType string) (ArtifactIdentifier, error) {
	groupID = strings.TrimSpace(groupID)
	artifactID = strings.TrimSpace(artifactID)
	classifier = strings.TrimSpace(classifier)
	artifactType = strings.TrimSpace(artifactType)
	for _, coordinate := range []struct {
		name  string
		value string
	}{
		{name: "groupId", value: groupID},
		{name: "artifactId", value: artifactID},
		{name: "classifier", value: classifier},
		{name: "type", value: artifactType},
	} {
		if strings.Contains(coordinate.value, ":") {
			return ArtifactIdentifier{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s must not contain ':' (%q)", coordinate.name, coordinate.value))
		}
	}
	if groupID == "" {
		return ArtifactIdentifier{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("groupId must not be empty")
	}
	if artifactID == "" {
		return ArtifactIdentifier{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("artifactId must not be empty (groupId %s)", groupID))
	}
	if artifactType == "" {
		artifactType = DefaultArtifactType
	}
	return ArtifactIdentifier{
		GroupID:    groupID,
		ArtifactID: artifactID,
		Classifier: classifier,
		Type:       artifactType,
	}, nil
}

// String renders group:artifact[:classifier]:type.
func (id ArtifactIdentifier) String() string {
	var builder strings.Builder
	builder.WriteString(id.GroupID)
	builder.WriteString(":")
	builder.WriteString(id.ArtifactID)
	if id.Classifier != "" {
		builder.WriteString(":")
		builder.WriteString(id.Classifier)
	}
	builder.WriteString(":")
	builder.WriteString(id.artifactType())
	return builder.String()
}

func (id ArtifactIdentifier) Compare(other ArtifactIdentifier) int {
	return strings.Compare(id.String(), other.String())
}

func (id ArtifactIdentifier) artifactType() string {
	if id.Type == "" {
		return DefaultArtifactType
	}
	return id.Type
}

// Integrity is a closed sum over a calculated digest, a folder marker and an
// explicit opt-out. Digest is only meaningful for IntegrityKindCalculated.
type Integrity struct {
	Kind   IntegrityKind
	Digest string
}

func CalculatedIntegrity(digest string) Integrity {
	return Integrity{Kind: IntegrityKindCalculated, Digest: digest}
}

func FolderIntegrity() Integrity {
	return Integrity{Kind: IntegrityKindFolder}
}

func IgnoredIntegrity() Integrity {
	return Integrity{Kind: IntegrityKindIgnored}
}

// String returns the stored form: the digest with its algorithm header, or
// the folder/ignored marker.
func (i Integrity) String() string {
	switch i.Kind {
	case IntegrityKindCalculated:
		return i.Digest
	case IntegrityKindFolder:
		return IntegrityFolderMarker
	default:
		return IntegrityIgnoredMarker
	}
}

func (i Integrity) kind() IntegrityKind {
	if i.Kind == "" {
		return IntegrityKindIgnored
	}
	return i.Kind
}

// Equal reports whether the two values are compatible: only two calculated
// digests can disagree.
func (i Integrity) Equal(other Integrity) bool {
	return !i.Mismatch(other)
}

// Mismatch reports whether the two values are both calculated digests that
// differ. Folder and ignored values never mismatch.
func (i Integrity) Mismatch(other Integrity) bool {
	if i.kind() != IntegrityKindCalculated || other.kind() != IntegrityKindCalculated {
		return false
	}
	return i.Digest != other.Digest
}

const (
	IntegrityAlgorithmHeader = "sha512:"
	IntegrityFolderMarker    = "folder"
	IntegrityIgnoredMarker   = "ignored"
)

// Artifact is the base lockable unit. Values are immutable; the With methods
// return modified copies.
type Artifact struct {
	ID        ArtifactIdentifier
	Version   string
	Scope     string
	Optional  bool
	Integrity Integrity
}

type ArtifactOptions struct {
	Scope     string
	Optional  bool
	Integrity Integrity
}

func NewArtifact(id ArtifactIdentifier, version string, opts ArtifactOptions) (Artifact, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return Artifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("version must not be empty for %s", id))
	}
	scope := strings.TrimSpace(opts.Scope)
	if scope == "" {
		scope = DefaultScope
	}
	integrity := opts.Integrity
	if integrity.Kind == "" {
		integrity = IgnoredIntegrity()
	}
	return Artifact{
		ID:        id,
		Version:   version,
		Scope:     scope,
		Optional:  opts.Optional,
		Integrity: integrity,
	}, nil
}

func (a Artifact) Identifier() ArtifactIdentifier {
	return a.ID
}

func (a Artifact) WithVersion(version string) Artifact {
	a.Version = version
	return a
}

func (a Artifact) WithIntegrity(integrity Integrity) Artifact {
	a.Integrity = integrity
	return a
}

// Equal is EqualIgnoreVersion plus an exact version match.
func (a Artifact) Equal(other Artifact) bool {
	return a.Version == other.Version && a.EqualIgnoreVersion(other)
}

// EqualIgnoreVersion compares identity, scope, optional and integrity, the
// fields left once a version policy has settled the version.
func (a Artifact) EqualIgnoreVersion(other Artifact) bool {
	return a.ID == other.ID &&
		a.Scope == other.Scope &&
		a.Optional == other.Optional &&
		a.Integrity.Equal(other.Integrity)
}

// StringWithoutIntegrity renders group:artifact[:classifier]:type:version:scope:optional=<bool>.
func (a Artifact) StringWithoutIntegrity() string {
	return fmt.Sprintf("%s:%s:%s:optional=%t", a.ID, a.Version, a.Scope, a.Optional)
}

func (a Artifact) String() string {
	return a.StringWithoutIntegrity() + "@" + a.Integrity.String()
}

// Dependency is an artifact used as a project dependency. Scope and optional
// live on the embedded artifact.
type Dependency struct {
	Artifact
}

// Plugin is a build plugin together with its own dependency artifacts.
type Plugin struct {
	Artifact
	Dependencies []Artifact
}

type Extension struct {
	Artifact
}

// Parent is one link of the ancestor descriptor chain.
type Parent struct {
	Artifact
}
