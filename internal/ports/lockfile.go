package ports

import "buildlock/internal/types"

type LockFileReaderPort interface {
	Read(path string) (types.LockedProject, error)
}

type LockFileWriterPort interface {
	// Write stores the project and reports whether the file changed.
	Write(path string, project types.LockedProject) (bool, error)
}

type LockFilePort interface {
	LockFileReaderPort
	LockFileWriterPort
}
