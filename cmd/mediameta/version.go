package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediameta"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := mediameta.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "mediameta %s (commit %s, built %s, %s)\n",
				info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		},
	}
	// No configuration is needed to print the version.
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	cmd.PersistentPostRunE = func(*cobra.Command, []string) error { return nil }
	return cmd
}
