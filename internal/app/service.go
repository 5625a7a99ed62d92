package app

import (
	"runtime"

	"buildlock/internal/adapters"
	"buildlock/internal/ports"
	"buildlock/internal/types"
)

// ToolVersion is recorded in the environment section of new lock files. It
// is set at build time via ldflags.
var ToolVersion = "dev"

type Service struct {
	Resolution   ports.ResolutionPort
	PolicySource ports.PolicySourcePort
	LockFiles    func(format types.LockFileFormat) ports.LockFilePort
	Environment  func() types.Environment
}

func NewService() Service {
	return NewServiceWithWorkers(0)
}

// NewServiceWithWorkers bounds how many artifact files are digested at once.
// Zero uses one worker per CPU.
func NewServiceWithWorkers(workers int) Service {
	digests := adapters.NewDigestAdapter(0)
	return Service{
		Resolution:   adapters.NewResolutionFileAdapter(digests, workers),
		PolicySource: adapters.NewPolicyFileAdapter(),
		LockFiles: func(format types.LockFileFormat) ports.LockFilePort {
			return adapters.NewLockFileStoreAdapter(format)
		},
		Environment: CurrentEnvironment,
	}
}

func CurrentEnvironment() types.Environment {
	return types.Environment{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		ToolVersion: ToolVersion,
	}
}
