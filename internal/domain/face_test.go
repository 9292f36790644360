package domain

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"stream":      ModeStreaming,
		"Streaming":   ModeStreaming,
		"detect":      ModeDetecting,
		"recognise":   ModeRecognising,
		"recognize":   ModeRecognising,
		" idle ":      ModeIdle,
		"recognising": ModeRecognising,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseMode("dance"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestConnState_String(t *testing.T) {
	var s ConnState
	if s.String() != "closed" {
		t.Errorf("zero value should be closed, got %s", s)
	}
	if StateOpen.String() != "open" || StateConnecting.String() != "connecting" {
		t.Error("unexpected state names")
	}
}
