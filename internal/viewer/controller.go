package viewer

import (
	"fmt"
	"sync"

	"facecam/remote/internal/domain"
)

// UIState gates the capture action.
type UIState int

const (
	AwaitingName UIState = iota
	NameEntered
)

func (s UIState) String() string {
	switch s {
	case AwaitingName:
		return "awaiting_name"
	case NameEntered:
		return "name_entered"
	default:
		return "unknown"
	}
}

// Indicator is the status affordance shown next to the status text. The
// device does not tell success from failure, so there is only one lit state.
type Indicator int

const (
	IndicatorNone Indicator = iota
	IndicatorNormal
)

func (i Indicator) String() string {
	if i == IndicatorNormal {
		return "normal"
	}
	return "none"
}

// ControllerState is a point-in-time copy of the controller.
type ControllerState struct {
	UIState     UIState
	PendingName string
	Status      string
	Indicator   Indicator
	Mode        domain.Mode
}

// Controller holds the capture gate, the pending capture name, the last
// status text and the mode the client last asked for.
type Controller struct {
	cmd domain.Commander

	mu          sync.Mutex
	state       UIState
	pendingName string
	status      string
	indicator   Indicator
	mode        domain.Mode
}

// NewController creates a controller in AwaitingName with mode idle.
func NewController() *Controller {
	return &Controller{}
}

// SetCommander injects the command encoder.
func (c *Controller) SetCommander(cmd domain.Commander) {
	c.cmd = cmd
}

// SetName records what the operator typed. Any typed character enables
// capture; only a roster clear disables it again.
func (c *Controller) SetName(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingName = text
	if text != "" {
		c.state = NameEntered
	}
}

// Capture sends a capture command for the pending name. The name is kept
// after sending.
func (c *Controller) Capture() error {
	c.mu.Lock()
	state, name := c.state, c.pendingName
	c.mu.Unlock()

	if state == AwaitingName {
		return domain.ErrCaptureDisabled
	}
	return c.cmd.RequestCapture(name)
}

// RequestMode asks the device to switch mode. Idle has no command on the
// wire. The advisory mode only changes once the command was sent.
func (c *Controller) RequestMode(mode domain.Mode) error {
	var err error
	switch mode {
	case domain.ModeStreaming:
		err = c.cmd.RequestStream()
	case domain.ModeDetecting:
		err = c.cmd.RequestDetect()
	case domain.ModeRecognising:
		err = c.cmd.RequestRecognise()
	default:
		return fmt.Errorf("mode %s cannot be requested: %w", mode, domain.ErrInvalidArgument)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	return nil
}

// Reset empties the pending name and disables capture.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pendingName = ""
	c.state = AwaitingName
}

// ShowStatus displays free-form device text.
func (c *Controller) ShowStatus(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = text
	c.indicator = IndicatorNormal
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ControllerState{
		UIState:     c.state,
		PendingName: c.pendingName,
		Status:      c.status,
		Indicator:   c.indicator,
		Mode:        c.mode,
	}
}
