package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"buildlock/internal/core"
	"buildlock/internal/types"
)

// supportedLockFileVersions gates which lock files this build can read.
var supportedLockFileVersions = mustConstraint("^1")

func mustConstraint(raw string) *semver.Constraints {
	constraint, err := semver.NewConstraint(raw)
	if err != nil {
		panic(err)
	}
	return constraint
}

func checkLockFileVersion(raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file is missing lockFileVersion")
	}
	version, err := semver.NewVersion(value)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid lockFileVersion %q", value)).
			WithCause(err)
	}
	if !supportedLockFileVersions.Check(version) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported lockFileVersion %s", value))
	}
	return nil
}

func readLockFile(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("lock file not found: %s", path)).
				WithCause(err)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read lock file").
			WithCause(err)
	}
	return data, nil
}

// writeLockFile replaces the file atomically. When the existing content is
// identical nothing is written and false is returned.
func writeLockFile(path string, data []byte) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock file path is empty")
	}
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		log.Debug().Str("path", path).Msg("lock file unchanged")
		return false, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create lock file directory").
				WithCause(err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write lock file").
			WithCause(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to replace lock file").
			WithCause(err)
	}
	return true, nil
}

// lockedArtifact builds an artifact from stored fields, reporting missing
// required fields against the given location.
func lockedArtifact(location string, groupID string, artifactID string, classifier string, artifactType string, version string, scope string, optional bool, integrity string) (types.Artifact, error) {
	required := []struct {
		name  string
		value string
	}{
		{name: "groupId", value: groupID},
		{name: "artifactId", value: artifactID},
		{name: "version", value: version},
		{name: "integrity", value: integrity},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return types.Artifact{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("%s: missing required field %s", location, field.name))
		}
	}
	id, err := types.NewArtifactIdentifier(groupID, artifactID, classifier, artifactType)
	if err != nil {
		return types.Artifact{}, wrapLocation(location, err)
	}
	parsed, err := core.ParseIntegrity(integrity)
	if err != nil {
		return types.Artifact{}, wrapLocation(location, err)
	}
	artifact, err := types.NewArtifact(id, version, types.ArtifactOptions{
		Scope:     scope,
		Optional:  optional,
		Integrity: parsed,
	})
	if err != nil {
		return types.Artifact{}, wrapLocation(location, err)
	}
	return artifact, nil
}

func wrapLocation(location string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeOf(err)).
		WithMsg(fmt.Sprintf("%s: %s", location, errorMessage(err))).
		WithCause(err)
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func parseOptionalIntegrity(location string, raw string) (types.Integrity, error) {
	if strings.TrimSpace(raw) == "" {
		return types.IgnoredIntegrity(), nil
	}
	parsed, err := core.ParseIntegrity(raw)
	if err != nil {
		return types.Integrity{}, wrapLocation(location, err)
	}
	return parsed, nil
}
