// Package shared provides common utility functions used across multiple
// packages in the buildlock codebase.
package shared

import (
	"fmt"

	"buildlock/internal/types"
)

// ArtifactKey is the deduplication key of an artifact in a lock file:
// the canonical identifier followed by the version, so the same identifier
// locked at two versions (a project dependency and a plugin dependency)
// stays distinct.
func ArtifactKey(artifact types.Artifact) string {
	return artifact.ID.String() + ":" + artifact.Version
}

// LineError prefixes a structural error message with its source line.
func LineError(line int, format string, args ...any) string {
	return fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...))
}
