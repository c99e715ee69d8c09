// ABOUTME: Byte cursor over a logical position space
// ABOUTME: Every field decoder reads through a Cursor and advances it

package codec

import "fmt"

// ByteSource is random read access to a dictionary body
type ByteSource interface {
	ByteAt(pos int) (byte, error)
	TailPosition() int
}

// Cursor reads fields sequentially starting at a logical position
type Cursor struct {
	src ByteSource
	Pos int
}

// NewCursor creates a cursor positioned at pos
func NewCursor(src ByteSource, pos int) *Cursor {
	return &Cursor{src: src, Pos: pos}
}

func (c *Cursor) readUint8() (int, error) {
	b, err := c.src.ByteAt(c.Pos)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	c.Pos++
	return int(b), nil
}

func (c *Cursor) readUint16() (int, error) {
	return c.readUintN(2)
}

func (c *Cursor) readUint24() (int, error) {
	return c.readUintN(3)
}

func (c *Cursor) readUint32() (int, error) {
	return c.readUintN(4)
}

// readUintN reads a big-endian unsigned integer of n bytes
func (c *Cursor) readUintN(n int) (int, error) {
	v := 0
	for i := 0; i < n; i++ {
		b, err := c.readUint8()
		if err != nil {
			return 0, err
		}
		v = v<<8 | b
	}
	return v, nil
}

// readSint24 reads a sign-magnitude 24-bit integer; the sign is the top bit
func (c *Cursor) readSint24() (int, error) {
	v, err := c.readUint24()
	if err != nil {
		return 0, err
	}
	if v&0x800000 != 0 {
		return -(v & maxSint24), nil
	}
	return v, nil
}

func (c *Cursor) peekUint8() (int, error) {
	b, err := c.src.ByteAt(c.Pos)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return int(b), nil
}
