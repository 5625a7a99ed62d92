package core

import (
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"buildlock/internal/types"
)

// Digest returns "sha512:" followed by the standard base64 encoding of the
// SHA-512 sum of data. A nil slice is rejected; an empty one is not.
func Digest(data []byte) (string, error) {
	if data == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("digest input is absent")
	}
	sum := sha512.Sum512(data)
	return types.IntegrityAlgorithmHeader + base64.StdEncoding.EncodeToString(sum[:]), nil
}

// DigestFile reads the whole file into memory and digests it.
func DigestFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("digest path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read artifact file %s", path)).
			WithCause(err)
	}
	if data == nil {
		data = []byte{}
	}
	return Digest(data)
}

// ParseIntegrity converts a stored integrity value. Anything other than a
// sha512 digest or one of the folder/ignored markers is rejected so that
// digests of a different algorithm are never compared against sha512 ones.
func ParseIntegrity(raw string) (types.Integrity, error) {
	value := strings.TrimSpace(raw)
	switch {
	case value == types.IntegrityFolderMarker:
		return types.FolderIntegrity(), nil
	case value == types.IntegrityIgnoredMarker:
		return types.IgnoredIntegrity(), nil
	case strings.HasPrefix(value, types.IntegrityAlgorithmHeader):
		encoded := strings.TrimPrefix(value, types.IntegrityAlgorithmHeader)
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(decoded) != sha512.Size {
			return types.Integrity{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed sha512 integrity value %q", value))
		}
		return types.CalculatedIntegrity(value), nil
	case value == "":
		return types.Integrity{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("integrity value is empty")
	default:
		return types.Integrity{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported integrity header in %q", value))
	}
}
