package charcount

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	filesTotal      prometheus.Counter
	linesTotal      prometheus.Counter
	charactersTotal *prometheus.CounterVec
	errorsTotal     prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: "iterfile",
			Subsystem: "charcount",
			Name:      name,
			Help:      help,
		}
	}
	return &metrics{
		filesTotal:      registerOrGet(reg, prometheus.NewCounter(opts("files_total", "Total number of files counted successfully."))),
		linesTotal:      registerOrGet(reg, prometheus.NewCounter(opts("lines_total", "Total number of lines read."))),
		charactersTotal: registerOrGet(reg, prometheus.NewCounterVec(opts("characters_total", "Total number of characters counted."), []string{"unit"})),
		errorsTotal:     registerOrGet(reg, prometheus.NewCounter(opts("errors_total", "Total number of files that could not be counted."))),
	}
}

// registerOrGet returns the collector already registered under the same
// descriptor, so several Counters can share one registry. A nil registerer
// leaves c unregistered.
func registerOrGet[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	var already prometheus.AlreadyRegisteredError
	switch err := reg.Register(c); {
	case err == nil:
		return c
	case errors.As(err, &already):
		return already.ExistingCollector.(T)
	default:
		panic(err)
	}
}
