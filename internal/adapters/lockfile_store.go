package adapters

import (
	"path/filepath"
	"strings"

	"buildlock/internal/ports"
	"buildlock/internal/types"
)

// LockFileStoreAdapter picks the serialization from an explicit format, or
// from the file extension when the format is left on auto.
type LockFileStoreAdapter struct {
	Format types.LockFileFormat
	JSON   JSONLockFileAdapter
	XML    XMLLockFileAdapter
}

func NewLockFileStoreAdapter(format types.LockFileFormat) LockFileStoreAdapter {
	return LockFileStoreAdapter{
		Format: format,
		JSON:   NewJSONLockFileAdapter(),
		XML:    NewXMLLockFileAdapter(),
	}
}

func (a LockFileStoreAdapter) Read(path string) (types.LockedProject, error) {
	return a.forPath(path).Read(path)
}

func (a LockFileStoreAdapter) Write(path string, project types.LockedProject) (bool, error) {
	return a.forPath(path).Write(path, project)
}

func (a LockFileStoreAdapter) forPath(path string) ports.LockFilePort {
	if FormatForPath(a.Format, path) == types.LockFileFormatXML {
		return a.XML
	}
	return a.JSON
}

// FormatForPath resolves the auto format: ".xml" selects XML, anything else
// JSON.
func FormatForPath(format types.LockFileFormat, path string) types.LockFileFormat {
	if format != types.LockFileFormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return types.LockFileFormatXML
	}
	return types.LockFileFormatJSON
}

var _ ports.LockFilePort = LockFileStoreAdapter{}
