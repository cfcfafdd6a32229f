package builder

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/strataui/strata/metric"
	"github.com/strataui/strata/registry"
)

// Dependencies provides everything a Builder needs from its surrounding
// runtime. Registries is required; the rest defaults sensibly when nil.
type Dependencies struct {
	Registries *registry.Set   // Shared registry set the build populates
	Logger     *slog.Logger    // Structured logger (can be nil, defaults to slog.Default())
	Metrics    *metric.Metrics // Build metrics (can be nil, recording becomes a no-op)
	Clock      clockwork.Clock // Clock for build timing (can be nil, defaults to the real clock)
}

// GetLogger returns the configured logger or a default logger if none is provided
func (d *Dependencies) GetLogger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// GetClock returns the configured clock or the real clock if none is provided
func (d *Dependencies) GetClock() clockwork.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return clockwork.NewRealClock()
}
