package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/simonhull/mediameta"
	"github.com/simonhull/mediameta/internal/configutil"
	"github.com/simonhull/mediameta/internal/dispatch"
	"github.com/simonhull/mediameta/internal/library"
	"github.com/simonhull/mediameta/internal/log"
	"github.com/simonhull/mediameta/internal/metrics"
)

// app holds what every subcommand shares once flags are parsed.
type app struct {
	configFile string
	dbPath     string

	config Config
	logger *zap.SugaredLogger
	scope  tally.Scope
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "mediameta",
		Short:        "mediameta reads audio and video metadata and keeps an index of media directories.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file path")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "index database path (overrides library.source)")

	root.AddCommand(
		newParseCmd(a),
		newScanCmd(a),
		newListCmd(a),
		newWatchCmd(a),
		newDumpCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	a.config = defaultConfig()
	if a.configFile != "" {
		if err := configutil.Load(a.configFile, &a.config); err != nil {
			return err
		}
	}
	if a.dbPath != "" {
		a.config.Library.Source = a.dbPath
	}

	logger, err := log.New(a.config.Logging, map[string]interface{}{"app": "mediameta"})
	if err != nil {
		return err
	}
	a.logger = logger.Sugar()
	log.SetGlobalLogger(a.logger)

	a.scope, a.closer, err = metrics.New(a.config.Metrics)
	return err
}

func (a *app) teardown() error {
	if a.closer != nil {
		a.closer.Close()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
	return nil
}

// options are the library options every command parses with.
func (a *app) options() []mediameta.Option {
	return []mediameta.Option{
		mediameta.WithLogger(a.logger),
		mediameta.WithMetrics(a.scope),
		mediameta.WithHeaderGuard(a.config.HeaderGuard),
	}
}

func (a *app) dispatcher() *dispatch.Dispatcher {
	return dispatch.New(
		dispatch.WithLogger(a.logger),
		dispatch.WithScope(a.scope),
		dispatch.WithGuard(int64(a.config.HeaderGuard.Bytes())),
	)
}

func (a *app) openStore() (*library.Store, error) {
	return library.New(a.config.Library)
}
