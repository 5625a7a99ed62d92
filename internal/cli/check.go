package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildlock/internal/app"
)

type checkOptions struct {
	LockFile               string
	Resolution             string
	PolicyFile             string
	Format                 string
	AllowValidationFailure bool
	Workers                int
}

func newCheckCommand() *cobra.Command {
	opts := checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the current resolution against the lock file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.LockFile, "lock-file", defaultLockFile, "Lock file path")
	cmd.Flags().StringVar(&opts.Resolution, "resolution", defaultResolution, "Resolution manifest path")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy-file", "", "Policy file path")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Lock file format (json, xml; default from extension)")
	cmd.Flags().BoolVar(&opts.AllowValidationFailure, "allow-validation-failure", false, "Report mismatches without failing")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent digest workers (0 = one per CPU)")
	_ = viper.BindPFlag("lock_file", cmd.Flags().Lookup("lock-file"))
	_ = viper.BindPFlag("resolution", cmd.Flags().Lookup("resolution"))
	_ = viper.BindPFlag("policy_file", cmd.Flags().Lookup("policy-file"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("allow_validation_failure", cmd.Flags().Lookup("allow-validation-failure"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts checkOptions) error {
	format, err := parseFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}
	rules, err := inlinePolicies()
	if err != nil {
		return err
	}
	service := newAppService(resolveInt(cmd, opts.Workers, "workers", "workers"))
	result, err := service.Check(ctx, app.CheckRequest{
		LockFile:               resolveString(cmd, opts.LockFile, "lock_file", "lock-file"),
		Resolution:             resolveString(cmd, opts.Resolution, "resolution", "resolution"),
		PolicyFile:             resolveString(cmd, opts.PolicyFile, "policy_file", "policy-file"),
		Format:                 format,
		Policies:               rules,
		AllowValidationFailure: resolveBool(cmd, opts.AllowValidationFailure, "allow_validation_failure", "allow-validation-failure"),
	})
	if err != nil {
		return err
	}
	if result.Allowed {
		fmt.Print(result.Diff.Render())
		fmt.Println("lock file mismatch allowed")
		return nil
	}
	fmt.Println("lock file matches")
	return nil
}
