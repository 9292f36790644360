package protocol

import (
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"facecam/remote/internal/domain"
)

// EventKind classifies an inbound message.
type EventKind int

const (
	EventFrame EventKind = iota + 1
	EventAddFace
	EventClearFaces
	EventStatus
)

func (k EventKind) String() string {
	switch k {
	case EventFrame:
		return "frame"
	case EventAddFace:
		return "add_face"
	case EventClearFaces:
		return "clear_faces"
	case EventStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Event is one decoded inbound message.
type Event struct {
	Kind    EventKind
	Name    string // EventAddFace
	Text    string // EventStatus
	Payload []byte // EventFrame
}

// Decode classifies a websocket message. Binary messages are frames; text
// messages are roster events or free-form status.
func Decode(messageType int, data []byte) (Event, error) {
	switch messageType {
	case websocket.BinaryMessage:
		return Event{Kind: EventFrame, Payload: data}, nil
	case websocket.TextMessage:
		return decodeText(string(data))
	default:
		return Event{}, fmt.Errorf("message type %d: %w", messageType, domain.ErrMalformedMessage)
	}
}

func decodeText(text string) (Event, error) {
	if strings.HasPrefix(text, listFacePrefix) {
		// The delimiter byte is not checked; the device always sends ':'.
		if len(text) <= listFaceNameOffset {
			return Event{}, fmt.Errorf("%q has no face name: %w", text, domain.ErrMalformedMessage)
		}
		return Event{Kind: EventAddFace, Name: text[listFaceNameOffset:]}, nil
	}
	if text == TokenDeleteFaces {
		return Event{Kind: EventClearFaces}, nil
	}
	return Event{Kind: EventStatus, Text: text}, nil
}

// Dispatch delivers ev to the matching handler method.
func Dispatch(ev Event, h domain.Handler) {
	switch ev.Kind {
	case EventFrame:
		h.OnFrame(ev.Payload)
	case EventAddFace:
		h.OnAddFace(ev.Name)
	case EventClearFaces:
		h.OnClearFaces()
	case EventStatus:
		h.OnStatus(ev.Text)
	}
}
