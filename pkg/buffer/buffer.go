// ABOUTME: Dual-segment dictionary buffer with an immutable original segment
// ABOUTME: and an append-only additional segment sharing one logical position space

package buffer

import (
	"fmt"
	"sync"
)

// Segment identifies which physical region holds a logical position
type Segment uint8

const (
	SegmentOriginal   Segment = 0
	SegmentAdditional Segment = 1
)

func (s Segment) String() string {
	if s == SegmentAdditional {
		return "additional"
	}
	return "original"
}

// Address is a logical position translated into its physical segment
type Address struct {
	Segment Segment
	Offset  int

	originalSize int
}

// Logical converts the address back into the shared position space.
// It is the inverse of View.Translate.
func (a Address) Logical() int {
	if a.Segment == SegmentAdditional {
		return a.Offset + a.originalSize
	}
	return a.Offset
}

// Buffer holds the original dictionary body and the additional segment
// that receives updates. Positions >= OriginalSize address the additional segment.
type Buffer struct {
	mu sync.RWMutex

	original      []byte
	additional    []byte
	maxAdditional int

	// journal persists appended bytes before they become visible
	journal Journal

	// unmap releases a file-backed original segment
	unmap  func() error
	closed bool
}

// Journal records additional-segment appends durably.
// offset is the local offset inside the additional segment.
type Journal interface {
	Record(offset int, p []byte) error
}

// New creates a buffer over an existing original segment.
// maxAdditional bounds the growth of the additional segment; 0 disables it.
func New(original []byte, maxAdditional int) *Buffer {
	return &Buffer{
		original:      original,
		maxAdditional: maxAdditional,
	}
}

// OriginalSize returns the size of the original segment
func (b *Buffer) OriginalSize() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.original)
}

// TailPosition returns the logical end of all written data
func (b *Buffer) TailPosition() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.original) + len(b.additional)
}

// IsInAdditional reports whether pos addresses the additional segment
func (b *Buffer) IsInAdditional(pos int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pos >= len(b.original)
}

// Append writes p to the end of the additional segment and returns the
// logical position of its first byte. Committed bytes are never rewritten.
func (b *Buffer) Append(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}
	if len(b.additional)+len(p) > b.maxAdditional {
		return 0, fmt.Errorf("append %d bytes at %d: %w", len(p), len(b.additional), ErrBufferFull)
	}

	if b.journal != nil {
		if err := b.journal.Record(len(b.additional), p); err != nil {
			return 0, fmt.Errorf("journal append at %d: %w", len(b.additional), err)
		}
	}

	pos := len(b.original) + len(b.additional)
	b.additional = append(b.additional, p...)
	return pos, nil
}

// SetJournal installs j so that every later Append is recorded before commit
func (b *Buffer) SetJournal(j Journal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.journal = j
}

// Snapshot returns an immutable view of the bytes written so far
func (b *Buffer) Snapshot() View {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return View{
		original:   b.original,
		additional: b.additional[:len(b.additional):len(b.additional)],
	}
}

// Close releases a file-backed original segment
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.unmap != nil {
		if err := b.unmap(); err != nil {
			return fmt.Errorf("munmap: %w", err)
		}
	}
	b.original = nil
	b.additional = nil
	return nil
}

// View is a point-in-time read view of a Buffer
type View struct {
	original   []byte
	additional []byte
}

// TailPosition returns the logical end of the view
func (v View) TailPosition() int {
	return len(v.original) + len(v.additional)
}

// OriginalSize returns the size of the original segment
func (v View) OriginalSize() int {
	return len(v.original)
}

// Translate maps a logical position to its segment and local offset
func (v View) Translate(pos int) Address {
	if pos >= len(v.original) {
		return Address{
			Segment:      SegmentAdditional,
			Offset:       pos - len(v.original),
			originalSize: len(v.original),
		}
	}
	return Address{Segment: SegmentOriginal, Offset: pos, originalSize: len(v.original)}
}

// ByteAt returns the byte at a logical position
func (v View) ByteAt(pos int) (byte, error) {
	if pos < 0 || pos >= v.TailPosition() {
		return 0, fmt.Errorf("read at %d, tail %d: %w", pos, v.TailPosition(), ErrOutOfBounds)
	}
	addr := v.Translate(pos)
	if addr.Segment == SegmentAdditional {
		return v.additional[addr.Offset], nil
	}
	return v.original[addr.Offset], nil
}
