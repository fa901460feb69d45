package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vovarama1992/deskmate/internal/models"
)

const unclassifiedKind = "unclassified"

// Metrics contains all Prometheus metrics for the command backend.
// Each instance owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	// Command metrics
	CommandRequests *prometheus.CounterVec
	CommandErrors   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Transcription metrics
	TranscriptionAudioBytes prometheus.Histogram

	// State file metrics
	StateWrites    prometheus.Counter
	StateSizeBytes prometheus.Gauge

	// IPC metrics
	IPCConnections prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,

		CommandRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_command_requests_total",
			Help: "Total number of command invocations",
		}, []string{"command", "outcome"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deskmate_command_errors_total",
			Help: "Total number of failed command invocations by error kind",
		}, []string{"command", "kind"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deskmate_command_duration_seconds",
			Help:    "Command execution time",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16), // 1ms to ~33s
		}, []string{"command"}),

		TranscriptionAudioBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deskmate_transcription_audio_bytes",
			Help:    "Size of uploaded audio clips in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 16), // 1KB to ~32MB
		}),

		StateWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deskmate_state_writes_total",
			Help: "Total number of successful state file writes",
		}),
		StateSizeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskmate_state_size_bytes",
			Help: "Size of the last written state file",
		}),

		IPCConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deskmate_ipc_connections",
			Help: "Current number of open WebSocket IPC connections",
		}),
	}

	reg.MustRegister(
		m.CommandRequests,
		m.CommandErrors,
		m.CommandDuration,
		m.TranscriptionAudioBytes,
		m.StateWrites,
		m.StateSizeBytes,
		m.IPCConnections,
	)

	return m
}

// RecordCommand records one finished invocation. err is the command's
// result; errors without a CommandError kind count as "unclassified".
func (m *Metrics) RecordCommand(command string, err error, seconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		kind := string(models.KindOf(err))
		if kind == "" {
			kind = unclassifiedKind
		}
		m.CommandErrors.WithLabelValues(command, kind).Inc()
	}
	m.CommandRequests.WithLabelValues(command, outcome).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(seconds)
}

func (m *Metrics) RecordAudio(size int) {
	if m == nil {
		return
	}
	m.TranscriptionAudioBytes.Observe(float64(size))
}

func (m *Metrics) RecordStateWrite(size int) {
	if m == nil {
		return
	}
	m.StateWrites.Inc()
	m.StateSizeBytes.Set(float64(size))
}

func (m *Metrics) ConnOpened() {
	if m != nil {
		m.IPCConnections.Inc()
	}
}

func (m *Metrics) ConnClosed() {
	if m != nil {
		m.IPCConnections.Dec()
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
