package protocol

import (
	"fmt"
	"strings"

	"facecam/remote/internal/domain"
	"facecam/remote/internal/metrics"
)

// Encoder turns operator intents into command tokens on a session.
// It implements domain.Commander.
type Encoder struct {
	sender  domain.Sender
	metrics *metrics.Metrics
}

// NewEncoder creates an Encoder writing to sender. m may be nil.
func NewEncoder(sender domain.Sender, m *metrics.Metrics) *Encoder {
	return &Encoder{sender: sender, metrics: m}
}

// RequestStream asks the device for raw streaming.
func (e *Encoder) RequestStream() error {
	return e.send("stream", TokenStream)
}

// RequestDetect asks the device for face detection.
func (e *Encoder) RequestDetect() error {
	return e.send("detect", TokenDetect)
}

// RequestRecognise asks the device for face recognition.
func (e *Encoder) RequestRecognise() error {
	return e.send("recognise", TokenRecognise)
}

// RequestCapture asks the device to store the current face under name.
// Blank names are rejected without sending. The name is sent verbatim.
func (e *Encoder) RequestCapture(name string) error {
	if strings.TrimSpace(name) == "" {
		err := fmt.Errorf("capture: name is empty: %w", domain.ErrInvalidArgument)
		e.metrics.CommandSent("capture", err)
		return err
	}
	return e.send("capture", capturePrefix+name)
}

// RequestRemove asks the device to delete the face stored under name. The
// device decides whether the name exists.
func (e *Encoder) RequestRemove(name string) error {
	return e.send("remove", removePrefix+name)
}

// RequestDeleteAll asks the device to clear its roster.
func (e *Encoder) RequestDeleteAll() error {
	return e.send("delete_all", TokenDeleteAll)
}

func (e *Encoder) send(command, token string) error {
	var err error
	if e.sender.State() != domain.StateOpen {
		err = domain.ErrNotConnected
	} else {
		err = e.sender.SendText(token)
	}
	e.metrics.CommandSent(command, err)
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}
