// Package metrics provides Prometheus metrics for the dictionary reader
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Read outcomes
const (
	OutcomeOK      = "ok"
	OutcomeCorrupt = "corrupt"
)

// Corruption reasons
const (
	ReasonOutOfRange  = "out_of_range"
	ReasonMoveChain   = "move_chain"
	ReasonTruncated   = "truncated"
	ReasonBadArray    = "bad_array"
	ReasonProbability = "probability_store"
)

// Metrics holds all Prometheus metrics for the dictionary reader
type Metrics struct {
	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// Node read metrics
	NodeReadsTotal      *prometheus.CounterVec
	MoveHops            prometheus.Histogram
	CorruptionsTotal    *prometheus.CounterVec
	TruncatedWordsTotal prometheus.Counter
	DecayedLookupsTotal prometheus.Counter

	// Buffer metrics
	OriginalSizeBytes   prometheus.Gauge
	AdditionalSizeBytes prometheus.Gauge

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// NewMetrics creates all metrics and registers them with reg.
// A nil reg uses the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triedict_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triedict_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "triedict_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	m.NodeReadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triedict_node_reads_total",
			Help: "Total number of node resolutions by outcome",
		},
		[]string{"outcome"},
	)

	m.MoveHops = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triedict_node_move_hops",
			Help:    "Number of moved-node forwards followed per resolution",
			Buckets: []float64{0, 1, 2, 4, 8, 16},
		},
	)

	m.CorruptionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triedict_dictionary_corruptions_total",
			Help: "Total number of dictionary integrity failures by reason",
		},
		[]string{"reason"},
	)

	m.TruncatedWordsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "triedict_truncated_words_total",
			Help: "Total number of nodes whose characters exceeded the maximum word length",
		},
	)

	m.DecayedLookupsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "triedict_decayed_probability_lookups_total",
			Help: "Total number of terminal probabilities computed from usage history",
		},
	)

	m.OriginalSizeBytes = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "triedict_buffer_original_size_bytes",
			Help: "Size of the original dictionary segment in bytes",
		},
	)

	m.AdditionalSizeBytes = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "triedict_buffer_additional_size_bytes",
			Help: "Size of the additional dictionary segment in bytes",
		},
	)

	m.ServerUptimeSeconds = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "triedict_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// StartUptime periodically updates the server uptime metric until done is closed
func (m *Metrics) StartUptime(done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
		}
	}
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordNodeRead records a successful resolution and its move-chain length
func (m *Metrics) RecordNodeRead(hops int) {
	m.NodeReadsTotal.WithLabelValues(OutcomeOK).Inc()
	m.MoveHops.Observe(float64(hops))
}

// RecordCorruption records a failed resolution
func (m *Metrics) RecordCorruption(reason string) {
	m.NodeReadsTotal.WithLabelValues(OutcomeCorrupt).Inc()
	m.CorruptionsTotal.WithLabelValues(reason).Inc()
}

// UpdateBufferStats updates the segment size gauges
func (m *Metrics) UpdateBufferStats(originalSize, tail int) {
	m.OriginalSizeBytes.Set(float64(originalSize))
	m.AdditionalSizeBytes.Set(float64(tail - originalSize))
}
