// Package metrics builds tally scopes for the dispatcher and the library
// scanner.
package metrics

import (
	"fmt"
	"io"

	"github.com/uber-go/tally"

	"github.com/simonhull/mediameta/internal/log"
)

func init() {
	register("disabled", newDisabledScope)
	register("log", newLogScope)
}

var _scopeFactories = make(map[string]scopeFactory)

type scopeFactory func(config Config) (tally.Scope, io.Closer, error)

func register(name string, f scopeFactory) {
	if _, ok := _scopeFactories[name]; ok {
		log.Fatalf("Metrics reporter factory %q is already registered", name)
	}
	_scopeFactories[name] = f
}

// New creates a new metrics Scope from config. If no backend is configured,
// metrics are disabled.
func New(config Config) (tally.Scope, io.Closer, error) {
	config = config.applyDefaults()
	f, ok := _scopeFactories[config.Backend]
	if !ok || f == nil {
		return nil, nil, fmt.Errorf("metrics backend %q not registered", config.Backend)
	}
	return f(config)
}
