package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildlock/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"lock", "check", "validate", "inspect"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestLockCommandFlags(t *testing.T) {
	cmd := newLockCommand()
	flags := []string{
		"lock-file", "resolution", "format",
		"include-plugins", "include-extensions", "include-parents",
		"allow-validation-failure", "workers",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.Equal(t, "true", cmd.Flags().Lookup("include-plugins").DefValue)
}

func TestCheckCommandFlags(t *testing.T) {
	cmd := newCheckCommand()
	flags := []string{
		"lock-file", "resolution", "policy-file", "format",
		"allow-validation-failure", "workers",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := newValidateCommand()
	assert.NotNil(t, cmd.Flags().Lookup("lock-file"))
	assert.NotNil(t, cmd.Flags().Lookup("policy-file"))
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStringPrefersChangedFlag(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("lock_file", "from-config.json")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("lock-file", "buildlock.json", "lock file")
	assert.Equal(t, "from-config.json", resolveString(cmd, "buildlock.json", "lock_file", "lock-file"))

	require.NoError(t, cmd.Flags().Set("lock-file", "from-flag.json"))
	assert.Equal(t, "from-flag.json", resolveString(cmd, "from-flag.json", "lock_file", "lock-file"))
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestResolveInt(t *testing.T) {
	got := resolveInt(nil, 42, "test_key", "test-flag")
	assert.Equal(t, 42, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		value    string
		expected types.LockFileFormat
	}{
		{value: "", expected: types.LockFileFormatAuto},
		{value: "auto", expected: types.LockFileFormatAuto},
		{value: "json", expected: types.LockFileFormatJSON},
		{value: " XML ", expected: types.LockFileFormatXML},
	}
	for _, tt := range tests {
		got, err := parseFormat(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.expected, got, tt.value)
	}

	_, err := parseFormat("toml")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Equal(t, "unsupported lock file format: toml", errorMessage(err))
}

func TestInlinePolicies(t *testing.T) {
	t.Cleanup(viper.Reset)

	rules, err := inlinePolicies()
	require.NoError(t, err)
	assert.Empty(t, rules)

	viper.Set("policies", []map[string]any{
		{"includes": []string{"org.acme"}, "version": "useProjectVersion", "allow_missing": true},
	})
	rules, err = inlinePolicies()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"org.acme"}, rules[0].Includes)
	require.NotNil(t, rules[0].Version)
	assert.Equal(t, types.VersionPolicyUseProjectVersion, *rules[0].Version)
	require.NotNil(t, rules[0].AllowMissing)
	assert.True(t, *rules[0].AllowMissing)
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "already exists",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("dup"),
			expected: 2,
		},
		{
			name: "lock file mismatch",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("lock file mismatch:\n"),
			expected: 3,
		},
		{
			name: "not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("lock file not found: buildlock.json"),
			expected: 4,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 5,
		},
		{
			name: "internal error",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ---------- Command execution tests ----------

func writeCLIWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := `project:
  groupId: org.acme
  artifactId: app
  version: 1.0.0
dependencies:
  - groupId: org.acme
    artifactId: core
    version: 1.0.0
    file: core.jar
plugins:
  - groupId: org.apache.maven.plugins
    artifactId: maven-jar-plugin
    version: 3.3.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resolution.yaml"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.jar"), []byte("core"), 0644))
	return dir
}

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(viper.Reset)
	root := newRootCommand()
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true
	return root.Execute()
}

func TestLockAndCheckCommands(t *testing.T) {
	dir := writeCLIWorkspace(t)
	lockFile := filepath.Join(dir, "buildlock.xml")
	resolution := filepath.Join(dir, "resolution.yaml")

	require.NoError(t, runRoot(t, "lock", "--lock-file", lockFile, "--resolution", resolution, "--include-plugins=false"))
	assert.FileExists(t, lockFile)

	require.NoError(t, runRoot(t, "check", "--lock-file", lockFile, "--resolution", resolution))
	require.NoError(t, runRoot(t, "validate", "--lock-file", lockFile))
	require.NoError(t, runRoot(t, "inspect", "--lock-file", lockFile))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.jar"), []byte("core-rebuilt"), 0644))
	err := runRoot(t, "check", "--lock-file", lockFile, "--resolution", resolution)
	require.Error(t, err)
	assert.Equal(t, 3, exitCodeForError(err))

	require.NoError(t, runRoot(t, "check", "--lock-file", lockFile, "--resolution", resolution, "--allow-validation-failure"))
}

func TestCheckCommandMissingLockFile(t *testing.T) {
	dir := writeCLIWorkspace(t)
	err := runRoot(t, "check",
		"--lock-file", filepath.Join(dir, "absent.json"),
		"--resolution", filepath.Join(dir, "resolution.yaml"))
	require.Error(t, err)
	assert.Equal(t, 4, exitCodeForError(err))
}

func TestLockCommandRejectsUnknownFormat(t *testing.T) {
	dir := writeCLIWorkspace(t)
	err := runRoot(t, "lock", "--lock-file", filepath.Join(dir, "buildlock.json"), "--format", "toml")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

// ---------- Config lookup tests ----------

func TestInitConfigSkipsLockFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildlock.yaml"), []byte("policy_file: policies.yaml\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildlock.json"), []byte(`{"lockFileVersion": "1.0.0"}`), 0644))
	t.Chdir(dir)

	require.NoError(t, initConfig(""))
	assert.Equal(t, "buildlock.yaml", filepath.Base(viper.ConfigFileUsed()))
	assert.Equal(t, "policies.yaml", viper.GetString("policy_file"))
}

func TestInitConfigWithoutConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	require.NoError(t, initConfig(""))
	assert.Empty(t, viper.ConfigFileUsed())
}

func TestInitConfigRejectsBrokenConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildlock.yaml"), []byte("policies: [\n"), 0644))
	t.Chdir(dir)

	err := initConfig("")
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeForError(err))
}

func TestCheckCommandKeepsConfigAfterLock(t *testing.T) {
	dir := writeCLIWorkspace(t)
	config := `lock_file: buildlock.json
resolution: resolution.yaml
policies:
  - includes: ["org.acme:core"]
    integrity: ignore
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildlock.yaml"), []byte(config), 0644))
	t.Chdir(dir)

	require.NoError(t, runRoot(t, "lock"))
	assert.FileExists(t, filepath.Join(dir, "buildlock.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.jar"), []byte("core-rebuilt"), 0644))
	require.NoError(t, runRoot(t, "check"))
}
