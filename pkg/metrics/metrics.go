package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DirectionDeserialize = "deserialize"
	DirectionSerialize   = "serialize"

	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// Conversion metrics
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbslate_conversions_total",
			Help: "Total number of conversions by direction and outcome",
		},
		[]string{"direction", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bbslate_conversion_duration_seconds",
			Help: "Time spent converting between markup and documents",
		},
		[]string{"direction"},
	)

	// Deserialization diagnostics
	UnmatchedTagsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bbslate_unmatched_tags_total",
		Help: "Number of tags deserialized literally because no rule claimed them",
	})

	SuppressedElementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bbslate_suppressed_elements_total",
		Help: "Number of elements dropped by a rule",
	})

	// Tool metrics
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbslate_tool_calls_total",
			Help: "Number of MCP tool calls by tool and outcome",
		},
		[]string{"tool", "status"},
	)
)

// ObserveConversion records the outcome of a single conversion
func ObserveConversion(direction string, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	ConversionsTotal.WithLabelValues(direction, status).Inc()
}
