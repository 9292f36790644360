package domain

import (
	"fmt"
	"strings"
)

// Mode is the device operating mode. The client only ever knows the mode it
// last asked for.
type Mode int

const (
	ModeIdle Mode = iota
	ModeStreaming
	ModeDetecting
	ModeRecognising
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeStreaming:
		return "streaming"
	case ModeDetecting:
		return "detecting"
	case ModeRecognising:
		return "recognising"
	default:
		return "unknown"
	}
}

// ConnState is the transport session state. The zero value is closed.
type ConnState int

const (
	StateClosed ConnState = iota
	StateConnecting
	StateOpen
)

func (s ConnState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// FaceEntry is a named capture mirrored from the device. Name is a display
// key and is not guaranteed to be unique.
type FaceEntry struct {
	Name string `json:"name"`
}

// ParseMode accepts a mode name or the command that requests it.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return ModeIdle, nil
	case "stream", "streaming":
		return ModeStreaming, nil
	case "detect", "detecting":
		return ModeDetecting, nil
	case "recognise", "recognising", "recognize", "recognizing":
		return ModeRecognising, nil
	default:
		return ModeIdle, fmt.Errorf("unknown mode %q: %w", s, ErrInvalidArgument)
	}
}
