package infra

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"simple_cross/internal/domain"
)

// Metrics provides lightweight observability for the sequencer hotpath.
// Counters are plain atomics; Prometheus reads them through Collect, so
// recording never touches the client library.
type Metrics struct {
	// Counters
	commandsProcessed atomic.Uint64
	fills             atomic.Uint64
	cancels           atomic.Uint64
	rejects           atomic.Uint64
	journalErrors     atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	restingOrders     atomic.Int64
	activeConnections atomic.Int32
}

// NewMetrics creates a zeroed metrics set.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordCommand records one processed command with its latency and effects.
func (m *Metrics) RecordCommand(latencyNs int64, effects []domain.Effect) {
	m.commandsProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
	for _, e := range effects {
		switch e.Kind {
		case domain.EffectFill:
			m.fills.Add(1)
		case domain.EffectCancelAck:
			m.cancels.Add(1)
		case domain.EffectError:
			m.rejects.Add(1)
		}
	}
}

// RecordJournalError records a failed journal append.
func (m *Metrics) RecordJournalError() {
	m.journalErrors.Add(1)
}

// SetRestingOrders sets the current book size.
func (m *Metrics) SetRestingOrders(n int) {
	m.restingOrders.Store(int64(n))
}

// IncrementConnections increments active connections by 1.
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
}

// DecrementConnections decrements active connections by 1.
func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	CommandsProcessed uint64
	Fills             uint64
	Cancels           uint64
	Rejects           uint64
	JournalErrors     uint64
	AvgLatencyNs      int64
	RestingOrders     int64
	ActiveConnections int32
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		CommandsProcessed: m.commandsProcessed.Load(),
		Fills:             m.fills.Load(),
		Cancels:           m.cancels.Load(),
		Rejects:           m.rejects.Load(),
		JournalErrors:     m.journalErrors.Load(),
		AvgLatencyNs:      avgLatency,
		RestingOrders:     m.restingOrders.Load(),
		ActiveConnections: m.activeConnections.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.commandsProcessed.Store(0)
	m.fills.Store(0)
	m.cancels.Store(0)
	m.rejects.Store(0)
	m.journalErrors.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.restingOrders.Store(0)
	m.activeConnections.Store(0)
}

var (
	descCommands    = prometheus.NewDesc("simplecross_commands_total", "Commands processed.", nil, nil)
	descFills       = prometheus.NewDesc("simplecross_fills_total", "Fill effects emitted (two per cross).", nil, nil)
	descCancels     = prometheus.NewDesc("simplecross_cancels_total", "Cancel acknowledgements emitted.", nil, nil)
	descRejects     = prometheus.NewDesc("simplecross_rejects_total", "Error effects emitted.", nil, nil)
	descJournalErrs = prometheus.NewDesc("simplecross_journal_errors_total", "Failed journal appends.", nil, nil)
	descLatency     = prometheus.NewDesc("simplecross_command_latency_avg_seconds", "Average command processing latency.", nil, nil)
	descResting     = prometheus.NewDesc("simplecross_resting_orders", "Orders currently resting.", nil, nil)
	descConnections = prometheus.NewDesc("simplecross_feed_connections", "Connected command feeds.", nil, nil)
)

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{descCommands, descFills, descCancels, descRejects, descJournalErrs, descLatency, descResting, descConnections} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.Snapshot()
	ch <- prometheus.MustNewConstMetric(descCommands, prometheus.CounterValue, float64(s.CommandsProcessed))
	ch <- prometheus.MustNewConstMetric(descFills, prometheus.CounterValue, float64(s.Fills))
	ch <- prometheus.MustNewConstMetric(descCancels, prometheus.CounterValue, float64(s.Cancels))
	ch <- prometheus.MustNewConstMetric(descRejects, prometheus.CounterValue, float64(s.Rejects))
	ch <- prometheus.MustNewConstMetric(descJournalErrs, prometheus.CounterValue, float64(s.JournalErrors))
	ch <- prometheus.MustNewConstMetric(descLatency, prometheus.GaugeValue, time.Duration(s.AvgLatencyNs).Seconds())
	ch <- prometheus.MustNewConstMetric(descResting, prometheus.GaugeValue, float64(s.RestingOrders))
	ch <- prometheus.MustNewConstMetric(descConnections, prometheus.GaugeValue, float64(s.ActiveConnections))
}

var _ prometheus.Collector = (*Metrics)(nil)
