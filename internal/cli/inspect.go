package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"buildlock/internal/app"
)

type inspectOptions struct {
	LockFile string
	Format   string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the contents of a lock file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.LockFile, "lock-file", defaultLockFile, "Lock file path")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Lock file format (json, xml; default from extension)")
	_ = viper.BindPFlag("lock_file", cmd.Flags().Lookup("lock-file"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	format, err := parseFormat(resolveString(cmd, opts.Format, "format", "format"))
	if err != nil {
		return err
	}
	service := newAppService(0)
	result, err := service.Inspect(app.InspectRequest{
		LockFile: resolveString(cmd, opts.LockFile, "lock_file", "lock-file"),
		Format:   format,
	})
	if err != nil {
		return err
	}

	fmt.Printf("project: %s:%s:%s (lockFileVersion %s)\n",
		result.Project.GroupID, result.Project.ArtifactID, result.Project.Version, result.LockFileVersion)
	fmt.Printf("pom: %s\n", result.Pom)
	fmt.Printf("fingerprint: %s\n", result.Fingerprint)
	for _, kind := range result.Kinds {
		fmt.Printf("%s: %d\n", kind.Kind, kind.Count)
		for _, artifact := range kind.Artifacts {
			fmt.Printf("- %s\n", artifact)
		}
	}
	fmt.Println("integrity:")
	for _, summary := range result.Integrity {
		fmt.Printf("- %s: %d\n", summary.Kind, summary.Count)
	}
	if result.Environment.ToolVersion != "" {
		fmt.Printf("locked on %s/%s with %s\n", result.Environment.OS, result.Environment.Arch, result.Environment.ToolVersion)
	}
	return nil
}
