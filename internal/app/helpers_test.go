package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

const baseManifest = `project:
  groupId: org.acme
  artifactId: app
  version: %s
  pom: pom.xml
dependencies:
  - groupId: org.acme
    artifactId: core
    version: %s
    file: repo/core.jar
  - groupId: com.example
    artifactId: util
    version: 2.1.0
    scope: test
    file: repo/util.jar
  - groupId: org.acme
    artifactId: generated
    version: %s
    file: classes
plugins:
  - groupId: org.apache.maven.plugins
    artifactId: maven-compiler-plugin
    type: maven-plugin
    version: %s
    file: repo/compiler.jar
    dependencies:
      - groupId: org.ow2.asm
        artifactId: asm
        version: "9.5"
        file: repo/asm.jar
extensions:
  - groupId: org.apache.maven.wagon
    artifactId: wagon-ssh
    version: 3.5.3
    file: repo/wagon.jar
parents:
  - groupId: org.acme
    artifactId: acme-parent
    type: pom
    version: "7"
    file: repo/parent.pom
`

type workspace struct {
	dir        string
	resolution string
}

// newWorkspace lays out a resolution manifest with its artifact files.
func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"pom.xml":           "<project/>",
		"repo/core.jar":     "core-1.0.0",
		"repo/util.jar":     "util-2.1.0",
		"repo/compiler.jar": "compiler-3.11.0",
		"repo/asm.jar":      "asm-9.5",
		"repo/wagon.jar":    "wagon-3.5.3",
		"repo/parent.pom":   "parent-7",
	}
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "classes"), 0755))
	ws := workspace{dir: dir, resolution: filepath.Join(dir, "resolution.yaml")}
	ws.writeManifest(t, "1.0.0", "1.0.0", "3.11.0")
	return ws
}

func (w workspace) writeManifest(t *testing.T, projectVersion string, coreVersion string, compilerVersion string) {
	t.Helper()
	content := []byte(fmt.Sprintf(baseManifest, projectVersion, coreVersion, projectVersion, compilerVersion))
	require.NoError(t, os.WriteFile(w.resolution, content, 0644))
}

func (w workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestService() Service {
	service := NewServiceWithWorkers(2)
	service.Environment = func() types.Environment {
		return types.Environment{OS: "linux", Arch: "amd64", ToolVersion: "test"}
	}
	return service
}

func lockWorkspace(t *testing.T, service Service, ws workspace, lockName string, config types.LockConfig) LockResult {
	t.Helper()
	result, err := service.Lock(t.Context(), LockRequest{
		LockFile:   ws.path(lockName),
		Resolution: ws.resolution,
		Config:     config,
	})
	require.NoError(t, err)
	return result
}

func policyPtr[T any](value T) *T {
	return &value
}
