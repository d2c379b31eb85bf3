package metrics

import (
	"io"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/simonhull/mediameta/internal/log"
)

// newLogScope reports every flushed value through the global logger at debug
// level. Intended for the CLI, where there is no metrics sink to talk to.
func newLogScope(config Config) (tally.Scope, io.Closer, error) {
	s, c := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   config.Prefix,
		Reporter: logReporter{logger: log.Default()},
	}, config.Interval)
	return s, c, nil
}

type logReporter struct {
	logger *zap.SugaredLogger
}

func (r logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.logger.Debugw("counter", "name", name, "tags", tags, "value", value)
}

func (r logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.logger.Debugw("gauge", "name", name, "tags", tags, "value", value)
}

func (r logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.logger.Debugw("timer", "name", name, "tags", tags, "value", interval)
}

func (r logReporter) ReportHistogramValueSamples(
	name string, tags map[string]string, _ tally.Buckets, lower, upper float64, samples int64) {
	r.logger.Debugw("histogram", "name", name, "tags", tags, "lower", lower, "upper", upper, "samples", samples)
}

func (r logReporter) ReportHistogramDurationSamples(
	name string, tags map[string]string, _ tally.Buckets, lower, upper time.Duration, samples int64) {
	r.logger.Debugw("histogram", "name", name, "tags", tags, "lower", lower, "upper", upper, "samples", samples)
}

func (r logReporter) Capabilities() tally.Capabilities { return r }
func (r logReporter) Reporting() bool                  { return true }
func (r logReporter) Tagging() bool                    { return true }
func (r logReporter) Flush()                           {}
