package domain

import "context"

// Sender delivers text tokens to the device.
type Sender interface {
	SendText(text string) error
	State() ConnState
}

// Session manages the websocket connection to the device.
type Session interface {
	Sender
	Connect(ctx context.Context) error
	Close()
}

// Handler receives decoded device events in delivery order.
type Handler interface {
	OnFrame(payload []byte)
	OnAddFace(name string)
	OnClearFaces()
	OnStatus(text string)
	OnMalformed(err error)
	OnStateChange(state ConnState)
}

// Commander issues device commands. Each call sends exactly one token.
type Commander interface {
	RequestStream() error
	RequestDetect() error
	RequestRecognise() error
	RequestCapture(name string) error
	RequestRemove(name string) error
	RequestDeleteAll() error
}

// FrameHandle is a displayable frame resource. Release must be called
// exactly once.
type FrameHandle interface {
	Bytes() []byte
	Release()
}

// Surface allocates frame resources and shows them.
type Surface interface {
	Acquire(payload []byte) (FrameHandle, error)
	Display(h FrameHandle)
}

// Publisher mirrors device events to outside consumers.
type Publisher interface {
	PublishStatus(text string)
	PublishRoster(names []string)
	Close()
}
