// Package metrics holds the Prometheus collectors for the remote.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"facecam/remote/internal/domain"
)

const namespace = "facecam"

// Metrics records protocol and viewer activity. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	commands   *prometheus.CounterVec
	events     *prometheus.CounterVec
	malformed  prometheus.Counter
	frames     prometheus.Counter
	frameBytes prometheus.Counter
	rosterSize prometheus.Gauge
	connState  prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handed to the session, by command and result",
		}, []string{"command", "result"}),

		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Decoded inbound events, by kind",
		}, []string{"kind"}),

		malformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_messages_total",
			Help:      "Inbound messages dropped because they matched no known shape",
		}),

		frames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Video frames swapped into the surface",
		}),

		frameBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_bytes_total",
			Help:      "Bytes of video frames received",
		}),

		rosterSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_entries",
			Help:      "Entries in the mirrored face roster",
		}),

		connState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "Session state: 0 closed, 1 connecting, 2 open",
		}),
	}
}

// CommandSent counts one command attempt.
func (m *Metrics) CommandSent(command string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "sent"
	case errors.Is(err, domain.ErrNotConnected):
		return "not_connected"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}

// EventReceived counts one decoded inbound event.
func (m *Metrics) EventReceived(kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// MalformedMessage counts one dropped inbound message.
func (m *Metrics) MalformedMessage() {
	if m == nil {
		return
	}
	m.malformed.Inc()
}

// FrameRendered counts one displayed frame of the given size.
func (m *Metrics) FrameRendered(size int) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.frameBytes.Add(float64(size))
}

// SetRosterSize sets the roster gauge.
func (m *Metrics) SetRosterSize(n int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(n))
}

// SetConnState sets the connection state gauge.
func (m *Metrics) SetConnState(s domain.ConnState) {
	if m == nil {
		return
	}
	m.connState.Set(float64(s))
}
