package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildlock/internal/app"
)

type validateOptions struct {
	LockFile   string
	PolicyFile string
	Format     string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the lock file and policy file structure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.LockFile, "lock-file", defaultLockFile, "Lock file path")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy-file", "", "Policy file path")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Lock file format (json, xml; default from extension)")
	_ = viper.BindPFlag("lock_file", cmd.Flags().Lookup("lock-file"))
	_ = viper.BindPFlag("policy_file", cmd.Flags().Lookup("policy-file"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	format, err := parseFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}
	rules, err := inlinePolicies()
	if err != nil {
		return err
	}
	service := newAppService(0)
	result, err := service.Validate(ctx, app.ValidateRequest{
		LockFile:   resolveString(cmd, opts.LockFile, "lock_file", "lock-file"),
		PolicyFile: resolveString(cmd, opts.PolicyFile, "policy_file", "policy-file"),
		Format:     format,
		Policies:   rules,
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %s:%s (lockFileVersion %s)\n", result.Project.GroupID, result.Project.ArtifactID, result.LockFileVersion)
	fmt.Printf("dependencies: %d, plugins: %d, extensions: %d, parents: %d, policy rules: %d\n",
		result.Dependencies, result.Plugins, result.Extensions, result.Parents, result.PolicyRules)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
