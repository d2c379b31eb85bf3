package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simonhull/mediameta/internal/library"
)

func newWatchCmd(a *app) *cobra.Command {
	var scanFirst bool
	cmd := &cobra.Command{
		Use:   "watch <dirs...>",
		Short: "Keep the index up to date while files change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			parser := a.dispatcher()
			scanner := library.NewScanner(store, parser, a.config.Scan,
				library.WithScannerLogger(a.logger),
				library.WithScannerScope(a.scope))

			if scanFirst {
				stats, err := scanner.Scan(ctx, args...)
				if err != nil {
					a.logger.Warnw("Initial scan finished with errors", "error", err)
				}
				a.logger.Infow("Initial scan done", "indexed", stats.Indexed, "failed", stats.Failed)
			}

			w, err := library.NewWatcher(store, parser, scanner)
			if err != nil {
				return err
			}
			if err := w.Add(args...); err != nil {
				return err
			}
			a.logger.Infow("Watching", "roots", args)
			return w.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&scanFirst, "scan", true, "scan the directories before watching them")
	return cmd
}
