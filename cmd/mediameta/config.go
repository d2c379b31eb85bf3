package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"

	"github.com/simonhull/mediameta"
	"github.com/simonhull/mediameta/internal/library"
	"github.com/simonhull/mediameta/internal/log"
	"github.com/simonhull/mediameta/internal/metrics"
)

// Config defines mediameta configuration.
type Config struct {
	Logging     log.Config         `yaml:"logging"`
	Metrics     metrics.Config     `yaml:"metrics"`
	Library     library.Config     `yaml:"library"`
	Scan        library.ScanConfig `yaml:"scan"`
	HeaderGuard datasize.ByteSize  `yaml:"header_guard"`
}

func defaultConfig() Config {
	return Config{
		Logging: log.Config{
			Level:    "warn",
			Encoding: "console",
		},
		Metrics: metrics.Config{
			Backend:  "disabled",
			Interval: 10 * time.Second,
		},
		Library: library.Config{
			Source: defaultSource(),
		},
		Scan: library.ScanConfig{
			Exclude: []string{"@eaDir", "node_modules", "$RECYCLE.BIN"},
		},
		HeaderGuard: mediameta.DefaultHeaderGuard,
	}
}

func defaultSource() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "mediameta", "index.db")
}
