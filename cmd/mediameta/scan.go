package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediameta/internal/library"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		exclude     []string
		concurrency int
		force       bool
		quiet       bool
	)
	cmd := &cobra.Command{
		Use:   "scan <dirs...>",
		Short: "Index the media files below the given directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := a.config.Scan
			config.Exclude = append(config.Exclude, exclude...)
			if concurrency > 0 {
				config.Concurrency = concurrency
			}
			config.Force = config.Force || force

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			opts := []library.ScannerOption{
				library.WithScannerLogger(a.logger),
				library.WithScannerScope(a.scope),
			}
			if !quiet {
				opts = append(opts, library.WithProgress(cmd.ErrOrStderr()))
			}
			scanner := library.NewScanner(store, a.dispatcher(), config, opts...)

			stats, err := scanner.Scan(cmd.Context(), args...)
			fmt.Fprintf(cmd.OutOrStdout(),
				"seen %d, indexed %d, unchanged %d, unsupported %d, failed %d\n",
				stats.Seen, stats.Indexed, stats.Unchanged, stats.Absent, stats.Failed)
			return err
		},
	}
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "directory names to skip")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "files parsed at once (default number of CPUs)")
	cmd.Flags().BoolVar(&force, "force", false, "parse files even when unchanged since the last scan")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not draw a progress bar")
	return cmd
}
