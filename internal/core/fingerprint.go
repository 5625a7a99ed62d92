package core

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"buildlock/internal/types"
)

// Fingerprint hashes the locked content of a project: coordinates, pom,
// every entity with its integrity, and the lock config. The environment is
// left out, so a JSON and an XML lock of the same resolution share a
// fingerprint no matter where they were produced.
func Fingerprint(project types.LockedProject) string {
	project = CanonicalProject(project)
	hasher := xxhash.New()

	writeField(hasher, project.Project.GroupID)
	writeField(hasher, project.Project.ArtifactID)
	writeField(hasher, project.Project.Version)
	writeField(hasher, project.Pom.String())
	endSection(hasher)

	for _, dep := range project.Dependencies {
		writeField(hasher, dep.String())
	}
	endSection(hasher)

	for _, plugin := range project.Plugins {
		writeField(hasher, plugin.String())
		for _, dep := range plugin.Dependencies {
			writeField(hasher, dep.String())
		}
		endSection(hasher)
	}
	endSection(hasher)

	for _, extension := range project.Extensions {
		writeField(hasher, extension.String())
	}
	endSection(hasher)

	for _, parent := range project.Parents {
		writeField(hasher, parent.String())
	}
	endSection(hasher)

	config := project.Config
	for _, flag := range []bool{config.IncludePlugins, config.IncludeExtensions, config.IncludeParents, config.AllowValidationFailure} {
		writeField(hasher, strconv.FormatBool(flag))
	}
	writeField(hasher, config.ChecksumAlgorithm)

	return fmt.Sprintf("%016x", hasher.Sum64())
}

func writeField(hasher *xxhash.Digest, value string) {
	_, _ = hasher.WriteString(value)
	_, _ = hasher.Write([]byte{0})
}

func endSection(hasher *xxhash.Digest) {
	_, _ = hasher.Write([]byte{1})
}
