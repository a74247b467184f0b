package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/syncmail/syncmail/internal/build"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display version, commit, build date, and Go version information for syncmail",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			version := build.Version
			if build.IsDevBuild() {
				version += " (development build)"
			}
			fmt.Fprintf(out, "syncmail version %s\n", version)
			fmt.Fprintf(out, "Built from commit: %s\n", build.Commit)
			fmt.Fprintf(out, "Build date: %s\n", build.BuildDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}
