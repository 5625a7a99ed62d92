package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildlock/internal/app"
	"buildlock/internal/types"
)

type lockOptions struct {
	LockFile               string
	Resolution             string
	Format                 string
	IncludePlugins         bool
	IncludeExtensions      bool
	IncludeParents         bool
	AllowValidationFailure bool
	Workers                int
}

func newLockCommand() *cobra.Command {
	opts := lockOptions{}
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Record the current resolution in the lock file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLock(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.LockFile, "lock-file", defaultLockFile, "Lock file path")
	cmd.Flags().StringVar(&opts.Resolution, "resolution", defaultResolution, "Resolution manifest path")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Lock file format (json, xml; default from extension)")
	cmd.Flags().BoolVar(&opts.IncludePlugins, "include-plugins", true, "Lock build plugins and their dependencies")
	cmd.Flags().BoolVar(&opts.IncludeExtensions, "include-extensions", true, "Lock build extensions")
	cmd.Flags().BoolVar(&opts.IncludeParents, "include-parents", true, "Lock the parent chain")
	cmd.Flags().BoolVar(&opts.AllowValidationFailure, "allow-validation-failure", false, "Record that checks against this lock file may fail without error")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent digest workers (0 = one per CPU)")
	_ = viper.BindPFlag("lock_file", cmd.Flags().Lookup("lock-file"))
	_ = viper.BindPFlag("resolution", cmd.Flags().Lookup("resolution"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("include_plugins", cmd.Flags().Lookup("include-plugins"))
	_ = viper.BindPFlag("include_extensions", cmd.Flags().Lookup("include-extensions"))
	_ = viper.BindPFlag("include_parents", cmd.Flags().Lookup("include-parents"))
	_ = viper.BindPFlag("allow_validation_failure", cmd.Flags().Lookup("allow-validation-failure"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runLock(ctx context.Context, cmd *cobra.Command, opts lockOptions) error {
	format, err := parseFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}
	service := newAppService(resolveInt(cmd, opts.Workers, "workers", "workers"))
	result, err := service.Lock(ctx, app.LockRequest{
		LockFile:   resolveString(cmd, opts.LockFile, "lock_file", "lock-file"),
		Resolution: resolveString(cmd, opts.Resolution, "resolution", "resolution"),
		Format:     format,
		Config: types.LockConfig{
			IncludePlugins:         resolveBool(cmd, opts.IncludePlugins, "include_plugins", "include-plugins"),
			IncludeExtensions:      resolveBool(cmd, opts.IncludeExtensions, "include_extensions", "include-extensions"),
			IncludeParents:         resolveBool(cmd, opts.IncludeParents, "include_parents", "include-parents"),
			AllowValidationFailure: resolveBool(cmd, opts.AllowValidationFailure, "allow_validation_failure", "allow-validation-failure"),
			ChecksumAlgorithm:      types.ChecksumAlgorithmSHA512,
		},
	})
	if err != nil {
		return err
	}
	state := "unchanged"
	if result.Written {
		state = "written"
	}
	fmt.Printf("lock file %s: %s\n", state, result.Path)
	fmt.Printf("dependencies: %d, plugins: %d, extensions: %d, parents: %d\n",
		result.Dependencies, result.Plugins, result.Extensions, result.Parents)
	fmt.Printf("fingerprint: %s\n", result.Fingerprint)
	return nil
}
