package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildlock/internal/app"
	"buildlock/internal/types"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "BUILDLOCK"

const (
	defaultLockFile   = "buildlock.json"
	defaultResolution = "resolution.yaml"
)

var configFileNames = []string{"buildlock.yaml", "buildlock.yml"}

type RootConfig struct {
	ConfigFile string
	LogLevel   string
}

var newAppService = func(workers int) app.Service {
	return app.NewServiceWithWorkers(workers)
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "buildlock",
		Short:   "Lock and verify resolved build artifacts",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			app.ToolVersion = version
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newLockCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInspectCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	path := defaultConfigFile()
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read config file %s", path)).
			WithCause(err)
	}
	return nil
}

// defaultConfigFile looks for buildlock.yaml or buildlock.yml in the working
// directory, then in $HOME/.config/buildlock. Only YAML names are tried so a
// buildlock.json lock file is never picked up as config.
func defaultConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "buildlock"))
	}
	for _, dir := range dirs {
		for _, name := range configFileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal, errbuilder.CodePermissionDenied:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func parseFormat(value string) (types.LockFileFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return types.LockFileFormatAuto, nil
	case "json":
		return types.LockFileFormatJSON, nil
	case "xml":
		return types.LockFileFormatXML, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported lock file format: %s", value))
	}
}

// inlinePolicies reads the policies list from the config file. They apply
// after the policy file rules.
func inlinePolicies() ([]types.PolicyRule, error) {
	if !viper.IsSet("policies") {
		return nil, nil
	}
	var rules []types.PolicyRule
	if err := viper.UnmarshalKey("policies", &rules); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse policies from config").
			WithCause(err)
	}
	return rules, nil
}
