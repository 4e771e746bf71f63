package api

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Edit outcomes.
const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

type apiMetrics struct {
	edits            *prometheus.CounterVec // By module and outcome
	validationErrors *prometheus.CounterVec // By error code
}

func newAPIMetrics(registry prometheus.Registerer) (*apiMetrics, error) {
	m := &apiMetrics{
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semlex",
			Subsystem: "api",
			Name:      "edits_total",
			Help:      "Total number of edit requests by API module and outcome",
		}, []string{"module", "outcome"}),

		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semlex",
			Subsystem: "api",
			Name:      "validation_errors_total",
			Help:      "Total number of rejected edit payloads by error code",
		}, []string{"code"}),
	}

	for name, c := range map[string]prometheus.Collector{
		"edits_total":             m.edits,
		"validation_errors_total": m.validationErrors,
	} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register %s: %w", name, err)
		}
	}
	return m, nil
}
