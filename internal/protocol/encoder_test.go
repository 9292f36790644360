package protocol

import (
	"errors"
	"testing"

	"facecam/remote/internal/domain"
)

// mockSender records sent tokens.
type mockSender struct {
	state domain.ConnState
	sent  []string
	err   error
}

func (m *mockSender) State() domain.ConnState { return m.state }
func (m *mockSender) SendText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, text)
	return nil
}

func TestEncoder_ModeTokens(t *testing.T) {
	s := &mockSender{state: domain.StateOpen}
	e := NewEncoder(s, nil)

	if err := e.RequestStream(); err != nil {
		t.Fatalf("RequestStream: %v", err)
	}
	if err := e.RequestDetect(); err != nil {
		t.Fatalf("RequestDetect: %v", err)
	}
	if err := e.RequestRecognise(); err != nil {
		t.Fatalf("RequestRecognise: %v", err)
	}
	if err := e.RequestDeleteAll(); err != nil {
		t.Fatalf("RequestDeleteAll: %v", err)
	}

	want := []string{"stream", "detect", "recognise", "delete_all"}
	if len(s.sent) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), s.sent)
	}
	for i := range want {
		if s.sent[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], s.sent[i])
		}
	}
}

func TestEncoder_RequestCapture(t *testing.T) {
	for _, name := range []string{"alice", " bob ", "carol smith", "x"} {
		s := &mockSender{state: domain.StateOpen}
		e := NewEncoder(s, nil)

		if err := e.RequestCapture(name); err != nil {
			t.Fatalf("RequestCapture(%q): %v", name, err)
		}
		if len(s.sent) != 1 || s.sent[0] != "capture:"+name {
			t.Errorf("RequestCapture(%q): expected [capture:%s], got %v", name, name, s.sent)
		}
	}
}

func TestEncoder_RequestCapture_RejectsBlankName(t *testing.T) {
	for _, name := range []string{"", " ", "\t\n "} {
		s := &mockSender{state: domain.StateOpen}
		e := NewEncoder(s, nil)

		err := e.RequestCapture(name)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("RequestCapture(%q): expected ErrInvalidArgument, got %v", name, err)
		}
		if len(s.sent) != 0 {
			t.Errorf("RequestCapture(%q): expected nothing sent, got %v", name, s.sent)
		}
	}
}

func TestEncoder_RequestRemove_NoValidation(t *testing.T) {
	for _, name := range []string{"alice", "", "  "} {
		s := &mockSender{state: domain.StateOpen}
		e := NewEncoder(s, nil)

		if err := e.RequestRemove(name); err != nil {
			t.Fatalf("RequestRemove(%q): %v", name, err)
		}
		if len(s.sent) != 1 || s.sent[0] != "remove:"+name {
			t.Errorf("RequestRemove(%q): expected [remove:%s], got %v", name, name, s.sent)
		}
	}
}

func TestEncoder_NotConnected(t *testing.T) {
	for _, state := range []domain.ConnState{domain.StateClosed, domain.StateConnecting} {
		s := &mockSender{state: state}
		e := NewEncoder(s, nil)

		calls := map[string]func() error{
			"stream":     e.RequestStream,
			"detect":     e.RequestDetect,
			"recognise":  e.RequestRecognise,
			"capture":    func() error { return e.RequestCapture("alice") },
			"remove":     func() error { return e.RequestRemove("alice") },
			"delete_all": e.RequestDeleteAll,
		}
		for name, call := range calls {
			if err := call(); !errors.Is(err, domain.ErrNotConnected) {
				t.Errorf("%s while %s: expected ErrNotConnected, got %v", name, state, err)
			}
		}
		if len(s.sent) != 0 {
			t.Errorf("expected nothing sent while %s, got %v", state, s.sent)
		}
	}
}

func TestEncoder_WrapsSendError(t *testing.T) {
	s := &mockSender{state: domain.StateOpen, err: domain.ErrNotConnected}
	e := NewEncoder(s, nil)

	if err := e.RequestStream(); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("expected ErrNotConnected from sender, got %v", err)
	}
}
