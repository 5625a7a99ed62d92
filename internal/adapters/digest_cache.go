package adapters

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	lru "github.com/hashicorp/golang-lru/v2"

	"buildlock/internal/core"
	"buildlock/internal/ports"
	"buildlock/internal/types"
)

const defaultDigestCacheSize = 4096

type digestKey struct {
	path    string
	size    int64
	modTime int64
}

// DigestAdapter digests artifact files. Results are cached per path, size
// and modification time, so a file shared by several entities is read once.
// Safe for concurrent use.
type DigestAdapter struct {
	cache *lru.Cache[digestKey, string]
}

func NewDigestAdapter(size int) *DigestAdapter {
	if size <= 0 {
		size = defaultDigestCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[digestKey, string](size)
	return &DigestAdapter{cache: cache}
}

// DigestFile returns the folder marker for directories and a sha512 digest
// for regular files.
func (a *DigestAdapter) DigestFile(path string) (types.Integrity, error) {
	if strings.TrimSpace(path) == "" {
		return types.Integrity{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("artifact file path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Integrity{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("artifact file not found: %s", path)).
				WithCause(err)
		}
		return types.Integrity{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat artifact file %s", path)).
			WithCause(err)
	}
	if info.IsDir() {
		return types.FolderIntegrity(), nil
	}
	key := digestKey{path: filepath.Clean(path), size: info.Size(), modTime: info.ModTime().UnixNano()}
	if digest, ok := a.cache.Get(key); ok {
		return types.CalculatedIntegrity(digest), nil
	}
	digest, err := core.DigestFile(path)
	if err != nil {
		return types.Integrity{}, err
	}
	a.cache.Add(key, digest)
	return types.CalculatedIntegrity(digest), nil
}

func (a *DigestAdapter) Len() int {
	return a.cache.Len()
}

var _ ports.DigestPort = (*DigestAdapter)(nil)
