package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gorilla/websocket"

	"facecam/remote/internal/domain"
)

func TestDecode_Binary(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0}
	ev, err := Decode(websocket.BinaryMessage, payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Kind != EventFrame {
		t.Fatalf("expected frame, got %s", ev.Kind)
	}
	if !bytes.Equal(ev.Payload, payload) {
		t.Errorf("expected payload %v, got %v", payload, ev.Payload)
	}
}

func TestDecode_BinaryThatLooksLikeText(t *testing.T) {
	ev, err := Decode(websocket.BinaryMessage, []byte("delete_faces"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.Kind != EventFrame {
		t.Errorf("binary messages are always frames, got %s", ev.Kind)
	}
}

func TestDecode_Text(t *testing.T) {
	tests := []struct {
		in   string
		want Event
	}{
		{"listface:alice", Event{Kind: EventAddFace, Name: "alice"}},
		{"listface:carol smith", Event{Kind: EventAddFace, Name: "carol smith"}},
		{"listface bob", Event{Kind: EventAddFace, Name: "bob"}},
		{"listface::x", Event{Kind: EventAddFace, Name: ":x"}},
		{"delete_faces", Event{Kind: EventClearFaces}},
		{"battery low", Event{Kind: EventStatus, Text: "battery low"}},
		{"delete_faces ", Event{Kind: EventStatus, Text: "delete_faces "}},
		{"FACE NOT RECOGNISED", Event{Kind: EventStatus, Text: "FACE NOT RECOGNISED"}},
		{"", Event{Kind: EventStatus, Text: ""}},
	}

	for _, tt := range tests {
		got, err := Decode(websocket.TextMessage, []byte(tt.in))
		if err != nil {
			t.Errorf("Decode(%q): %v", tt.in, err)
			continue
		}
		if got.Kind != tt.want.Kind || got.Name != tt.want.Name || got.Text != tt.want.Text {
			t.Errorf("Decode(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDecode_ListfaceWithoutName(t *testing.T) {
	for _, in := range []string{"listface", "listface:"} {
		_, err := Decode(websocket.TextMessage, []byte(in))
		if !errors.Is(err, domain.ErrMalformedMessage) {
			t.Errorf("Decode(%q): expected ErrMalformedMessage, got %v", in, err)
		}
	}
}

func TestDecode_UnknownMessageType(t *testing.T) {
	_, err := Decode(websocket.PingMessage, nil)
	if !errors.Is(err, domain.ErrMalformedMessage) {
		t.Errorf("expected ErrMalformedMessage, got %v", err)
	}
}

// recordingHandler records dispatched events in order.
type recordingHandler struct {
	calls []string
}

func (r *recordingHandler) OnFrame(payload []byte)               { r.calls = append(r.calls, "frame:"+string(payload)) }
func (r *recordingHandler) OnAddFace(name string)                { r.calls = append(r.calls, "add:"+name) }
func (r *recordingHandler) OnClearFaces()                        { r.calls = append(r.calls, "clear") }
func (r *recordingHandler) OnStatus(text string)                 { r.calls = append(r.calls, "status:"+text) }
func (r *recordingHandler) OnMalformed(err error)                { r.calls = append(r.calls, "malformed") }
func (r *recordingHandler) OnStateChange(state domain.ConnState) {}

func TestDispatch(t *testing.T) {
	h := &recordingHandler{}

	Dispatch(Event{Kind: EventAddFace, Name: "dave"}, h)
	Dispatch(Event{Kind: EventFrame, Payload: []byte("jpg")}, h)
	Dispatch(Event{Kind: EventStatus, Text: "ok"}, h)
	Dispatch(Event{Kind: EventClearFaces}, h)

	want := []string{"add:dave", "frame:jpg", "status:ok", "clear"}
	if len(h.calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, h.calls)
	}
	for i := range want {
		if h.calls[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], h.calls[i])
		}
	}
}
