// Package framebuffer implements the triple-buffered handoff between the
// PPU (sole writer) and a presentation consumer (sole reader of the ready
// buffer), the only concurrency-sensitive boundary of the core (spec.md §5,
// §9 "Framebuffer handoff").
package framebuffer

import "sync/atomic"

// Width and Height are the NES's fixed visible resolution.
const (
	Width  = 256
	Height = 240
)

// Buffer is one frame of 32-bit pixels in 0x00RRGGBB form; the top byte
// carries no alpha value.
type Buffer [Width * Height]uint32

// Handoff owns three Buffers and hands the most recently completed one to a
// reader without blocking the writer. Only the write-side index is mutated
// from within the core; the atomic swap at VBlank is the sole externally
// observable synchronization point.
type Handoff struct {
	bufs      [3]Buffer
	writeIdx  int
	readyIdx  atomic.Int32
	readerIdx int
}

// New returns a Handoff with all three buffers cleared to black.
func New() *Handoff {
	h := &Handoff{writeIdx: 0, readerIdx: 2}
	h.readyIdx.Store(1)
	return h
}

// WriteSide returns the buffer the PPU should render the current frame
// into. Valid only for the core's single writer goroutine.
func (h *Handoff) WriteSide() *Buffer {
	return &h.bufs[h.writeIdx]
}

// Publish marks the write-side buffer as ready and acquires a fresh
// write-side buffer (the previous ready buffer, unless a reader is still
// holding it -- with 3 buffers there is always a free one). Called once per
// frame, at VBlank set (spec.md §4.3 scanline 241 dot 1).
func (h *Handoff) Publish() {
	prevReady := int(h.readyIdx.Swap(int32(h.writeIdx)))
	h.writeIdx = prevReady
}

// Acquire returns the current ready buffer for reading. Safe to call from a
// separate presentation goroutine/task; never returns the buffer the PPU is
// actively writing.
func (h *Handoff) Acquire() *Buffer {
	ready := int(h.readyIdx.Load())
	if ready == h.writeIdx {
		// Should not happen with 3 buffers and single-writer discipline,
		// but never hand back the active write-side.
		return &h.bufs[h.readerIdx]
	}
	h.readerIdx = ready
	return &h.bufs[ready]
}
