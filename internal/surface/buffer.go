// Package surface provides display targets for the frame renderer.
package surface

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"facecam/remote/internal/domain"
)

// ErrForeignHandle is logged when Display is given a handle this Buffer did
// not acquire.
var ErrForeignHandle = errors.New("handle not acquired from this surface")

// Buffer keeps the latest displayed frame in pooled memory so it can be
// served to readers, and optionally copies each displayed frame to a writer
// (for example stdout piped to ffplay). It implements domain.Surface.
type Buffer struct {
	pool sync.Pool
	log  zerolog.Logger

	mu    sync.RWMutex
	shown *frame

	live atomic.Int64

	tee     io.Writer
	teeCh   chan []byte
	teeDone chan struct{}
}

type frame struct {
	owner    *Buffer
	buf      *[]byte
	released atomic.Bool
}

func (f *frame) Bytes() []byte {
	return *f.buf
}

func (f *frame) Release() {
	if !f.released.CompareAndSwap(false, true) {
		f.owner.log.Error().Msg("frame released twice")
		return
	}
	f.owner.release(f)
}

// NewBuffer creates a Buffer. If tee is non-nil, displayed frames are written
// to it from a separate goroutine; when the writer falls behind, older
// pending frames are dropped so the caller never blocks.
func NewBuffer(tee io.Writer) *Buffer {
	b := &Buffer{
		log: log.With().Str("component", "surface").Logger(),
	}
	b.pool.New = func() any {
		buf := make([]byte, 0, 32*1024)
		return &buf
	}

	if tee != nil {
		b.tee = tee
		b.teeCh = make(chan []byte, 1)
		b.teeDone = make(chan struct{})
		go b.teeLoop()
	}
	return b
}

// Acquire copies payload into a pooled buffer.
func (b *Buffer) Acquire(payload []byte) (domain.FrameHandle, error) {
	buf := b.pool.Get().(*[]byte)
	*buf = append((*buf)[:0], payload...)
	b.live.Add(1)
	return &frame{owner: b, buf: buf}, nil
}

// Display makes h the frame returned by Latest.
func (b *Buffer) Display(h domain.FrameHandle) {
	f, ok := h.(*frame)
	if !ok || f.owner != b {
		b.log.Error().Err(ErrForeignHandle).Msg("display")
		return
	}

	b.mu.Lock()
	b.shown = f
	b.mu.Unlock()

	if b.teeCh != nil {
		b.offer(append([]byte(nil), f.Bytes()...))
	}
}

// Latest returns a copy of the displayed frame.
func (b *Buffer) Latest() ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.shown == nil {
		return nil, false
	}
	return append([]byte(nil), b.shown.Bytes()...), true
}

// Live reports the number of acquired handles not yet released.
func (b *Buffer) Live() int64 {
	return b.live.Load()
}

// Close stops the tee goroutine.
func (b *Buffer) Close() {
	if b.teeCh != nil {
		close(b.teeCh)
		<-b.teeDone
		b.teeCh = nil
	}
}

func (b *Buffer) release(f *frame) {
	// Wait out readers copying this frame before its memory is reused.
	b.mu.Lock()
	if b.shown == f {
		b.shown = nil
	}
	b.mu.Unlock()

	b.live.Add(-1)
	*f.buf = (*f.buf)[:0]
	b.pool.Put(f.buf)
}

// offer queues data for the tee, replacing any frame still waiting.
// Display is only called from one goroutine, so the second send cannot block.
func (b *Buffer) offer(data []byte) {
	select {
	case b.teeCh <- data:
		return
	default:
	}
	select {
	case <-b.teeCh:
	default:
	}
	b.teeCh <- data
}

func (b *Buffer) teeLoop() {
	defer close(b.teeDone)

	for data := range b.teeCh {
		if _, err := b.tee.Write(data); err != nil {
			b.log.Warn().Err(err).Msg("frame output write failed, disabling")
			for range b.teeCh {
			}
			return
		}
	}
}
