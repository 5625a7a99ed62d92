package ports

import (
	"context"

	"buildlock/internal/types"
)

// ResolutionPort loads the current build's resolved artifacts with their
// integrity already computed.
type ResolutionPort interface {
	LoadResolution(ctx context.Context, path string) (types.LockedProject, error)
}

type DigestPort interface {
	DigestFile(path string) (types.Integrity, error)
}
