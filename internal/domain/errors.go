package domain

import "errors"

var (
	// ErrInvalidArgument is returned when a command argument is rejected
	// before anything is sent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotConnected is returned when a command is attempted while the
	// session is not open. Nothing is queued.
	ErrNotConnected = errors.New("not connected")

	// ErrMalformedMessage marks inbound messages that match no known shape.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrCaptureDisabled is returned when capture is attempted before a
	// name has been entered.
	ErrCaptureDisabled = errors.New("capture disabled until a name is entered")
)
