package viewer

import (
	"fmt"
	"sync"

	"facecam/remote/internal/domain"
)

// Renderer shows the most recent frame. Each replacement releases the
// previous handle exactly once.
type Renderer struct {
	surface domain.Surface

	mu      sync.Mutex
	current domain.FrameHandle
	frames  uint64
}

// NewRenderer creates a renderer drawing on surface.
func NewRenderer(surface domain.Surface) *Renderer {
	return &Renderer{surface: surface}
}

// OnFrame swaps payload in. If the surface cannot take it, the previous
// frame stays on screen.
func (r *Renderer) OnFrame(payload []byte) error {
	h, err := r.surface.Acquire(payload)
	if err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.current
	r.current = h
	r.frames++
	r.surface.Display(h)
	if prev != nil {
		prev.Release()
	}
	return nil
}

// Frames returns how many frames have been displayed.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close releases the displayed frame.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.Release()
		r.current = nil
	}
}
