package viewer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/metrics"
)

// Snapshot is what the console and monitor show the operator.
type Snapshot struct {
	Connection  string `json:"connection"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	Indicator   string `json:"indicator"`
	UIState     string `json:"ui_state"`
	PendingName string `json:"pending_name"`
	RosterSize  int    `json:"roster_size"`
	Frames      uint64 `json:"frames"`
}

// Viewer coordinates the controller, roster and renderer.
// It implements domain.Handler.
type Viewer struct {
	controller *Controller
	roster     *Roster
	renderer   *Renderer
	cmd        domain.Commander
	publisher  domain.Publisher
	metrics    *metrics.Metrics
	cancel     context.CancelFunc
	log        zerolog.Logger

	conn atomic.Int32
}

// New creates a Viewer drawing frames on surface. publisher and m may be
// nil. cancel is called when the session closes.
// Call SetCommander before use to complete the circular dependency.
func New(surface domain.Surface, publisher domain.Publisher, m *metrics.Metrics, cancel context.CancelFunc) *Viewer {
	controller := NewController()
	return &Viewer{
		controller: controller,
		roster:     NewRoster(controller),
		renderer:   NewRenderer(surface),
		publisher:  publisher,
		metrics:    m,
		cancel:     cancel,
		log:        log.With().Str("component", "viewer").Logger(),
	}
}

// SetCommander injects the command encoder after construction to resolve the
// circular dependency (Viewer needs a Commander, the session needs a Handler).
func (v *Viewer) SetCommander(cmd domain.Commander) {
	v.cmd = cmd
	v.controller.SetCommander(cmd)
	v.roster.SetCommander(cmd)
}

func (v *Viewer) OnFrame(payload []byte) {
	if err := v.renderer.OnFrame(payload); err != nil {
		v.log.Warn().Err(err).Msg("frame dropped")
		return
	}
	v.metrics.EventReceived("frame")
	v.metrics.FrameRendered(len(payload))
}

func (v *Viewer) OnAddFace(name string) {
	v.log.Info().Str("name", name).Msg("face listed")
	v.roster.OnAdd(name)
	v.metrics.EventReceived("add_face")
	v.rosterChanged()
}

func (v *Viewer) OnClearFaces() {
	v.log.Info().Msg("roster cleared")
	v.roster.OnClear()
	v.metrics.EventReceived("clear_faces")
	v.rosterChanged()
}

func (v *Viewer) OnStatus(text string) {
	v.log.Info().Str("status", text).Msg("device status")
	v.controller.ShowStatus(text)
	v.metrics.EventReceived("status")
	if v.publisher != nil {
		v.publisher.PublishStatus(text)
	}
}

func (v *Viewer) OnMalformed(err error) {
	v.log.Warn().Err(err).Msg("malformed message")
	v.metrics.MalformedMessage()
}

func (v *Viewer) OnStateChange(state domain.ConnState) {
	v.log.Info().Stringer("state", state).Msg("connection")
	v.conn.Store(int32(state))
	v.metrics.SetConnState(state)

	if state == domain.StateClosed && v.cancel != nil {
		v.cancel()
	}
}

func (v *Viewer) rosterChanged() {
	v.metrics.SetRosterSize(v.roster.Len())
	if v.publisher != nil {
		v.publisher.PublishRoster(v.roster.Names())
	}
}

// RequestMode asks the device to switch mode.
func (v *Viewer) RequestMode(mode domain.Mode) error {
	return v.controller.RequestMode(mode)
}

// SetName records the pending capture name.
func (v *Viewer) SetName(text string) {
	v.controller.SetName(text)
}

// Capture captures the current face under the pending name.
func (v *Viewer) Capture() error {
	return v.controller.Capture()
}

// CaptureAs types name into the name field, then captures. A blank name is
// rejected and leaves the pending name as it was.
func (v *Viewer) CaptureAs(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("capture name is empty: %w", domain.ErrInvalidArgument)
	}
	v.controller.SetName(name)
	return v.controller.Capture()
}

// Remove asks the device to delete name.
func (v *Viewer) Remove(name string) error {
	return v.roster.OnRemoveRequested(name)
}

// DeleteAll asks the device to clear its roster.
func (v *Viewer) DeleteAll() error {
	return v.cmd.RequestDeleteAll()
}

// Roster returns the mirrored roster.
func (v *Viewer) Roster() []domain.FaceEntry {
	return v.roster.Entries()
}

// Snapshot returns the current operator-facing state.
func (v *Viewer) Snapshot() Snapshot {
	cs := v.controller.Snapshot()
	return Snapshot{
		Connection:  domain.ConnState(v.conn.Load()).String(),
		Mode:        cs.Mode.String(),
		Status:      cs.Status,
		Indicator:   cs.Indicator.String(),
		UIState:     cs.UIState.String(),
		PendingName: cs.PendingName,
		RosterSize:  v.roster.Len(),
		Frames:      v.renderer.Frames(),
	}
}

// Close releases the displayed frame.
func (v *Viewer) Close() {
	v.renderer.Close()
}
