package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tern version and build information",
	Args:  noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Current()
		out := cmd.OutOrStdout()

		if jsonOutput {
			outputSuccess(out, info, nil)
			return nil
		}

		fmt.Fprintf(out, "tern %s\n", info.Version)
		fmt.Fprintf(out, "module: %s\n", info.ModulePath)
		if info.Commit != "" {
			fmt.Fprintf(out, "commit: %s\n", info.Commit)
		}
		if info.CommitTime != "" {
			fmt.Fprintf(out, "commit_time: %s\n", info.CommitTime)
		}
		fmt.Fprintf(out, "go: %s\n", info.GoVersion)
		fmt.Fprintf(out, "platform: %s\n", info.Platform)
		fmt.Fprintf(out, "modified: %t\n", info.Modified)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
