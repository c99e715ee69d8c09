// ABOUTME: Field decoders for node records of the dynamic version 4 format
// ABOUTME: Each decoder reads one field at the cursor and advances past it

package codec

import "fmt"

// FieldDecoder is the per-format contract for decoding node record fields
type FieldDecoder interface {
	Flags(c *Cursor) (Flags, error)
	ParentOffset(c *Cursor) (int, error)
	CodePoints(c *Cursor, flags Flags, out *CodePoints) error
	TerminalID(c *Cursor) (int, error)
	ChildrenPos(c *Cursor) (int, error)
	ArraySize(c *Cursor) (int, error)
	ForwardLink(c *Cursor) (int, error)
}

// Ver4 decodes the dynamic version 4 node layout:
//
//	flags(1) parentOffset(3) chars(1..n) [terminalId(4)] childrenPos(3)
type Ver4 struct{}

var _ FieldDecoder = Ver4{}

func (Ver4) Flags(c *Cursor) (Flags, error) {
	v, err := c.readUint8()
	if err != nil {
		return 0, fmt.Errorf("flags at %d: %w", c.Pos, err)
	}
	return Flags(v), nil
}

// ParentOffset returns the raw signed offset; use ParentPos to anchor it
func (Ver4) ParentOffset(c *Cursor) (int, error) {
	v, err := c.readSint24()
	if err != nil {
		return 0, fmt.Errorf("parent offset at %d: %w", c.Pos, err)
	}
	return v, nil
}

// CodePoints reads one character, or a terminated list when the
// multiple-chars flag is set. Characters beyond the capacity of out are
// skipped but still consumed.
func (Ver4) CodePoints(c *Cursor, flags Flags, out *CodePoints) error {
	if !flags.HasMultipleChars() {
		cp, err := readCodePoint(c)
		if err != nil {
			return fmt.Errorf("code point at %d: %w", c.Pos, err)
		}
		if cp != NotACodePoint {
			out.Append(cp)
		}
		return nil
	}
	for {
		cp, err := readCodePoint(c)
		if err != nil {
			return fmt.Errorf("code points at %d: %w", c.Pos, err)
		}
		if cp == NotACodePoint {
			return nil
		}
		out.Append(cp)
	}
}

func (Ver4) TerminalID(c *Cursor) (int, error) {
	v, err := c.readUint32()
	if err != nil {
		return 0, fmt.Errorf("terminal id at %d: %w", c.Pos, err)
	}
	return v, nil
}

// ChildrenPos returns the absolute children position or NotADictPos
func (Ver4) ChildrenPos(c *Cursor) (int, error) {
	base := c.Pos
	offset, err := c.readSint24()
	if err != nil {
		return 0, fmt.Errorf("children position at %d: %w", base, err)
	}
	return relativePos(offset, base), nil
}

// ArraySize reads the node count that heads a PtNode array
func (Ver4) ArraySize(c *Cursor) (int, error) {
	first, err := c.peekUint8()
	if err != nil {
		return 0, fmt.Errorf("array size at %d: %w", c.Pos, err)
	}
	if first&0x80 == 0 {
		return c.readUint8()
	}
	v, err := c.readUint16()
	if err != nil {
		return 0, fmt.Errorf("array size at %d: %w", c.Pos, err)
	}
	return v & 0x7FFF, nil
}

// ForwardLink returns the position of the next array or NotADictPos
func (Ver4) ForwardLink(c *Cursor) (int, error) {
	base := c.Pos
	offset, err := c.readSint24()
	if err != nil {
		return 0, fmt.Errorf("forward link at %d: %w", base, err)
	}
	return relativePos(offset, base), nil
}

// ParentPos anchors a parent offset at the node head. For moved nodes the
// result is the relocation target.
func ParentPos(offset, headPos int) int {
	return relativePos(offset, headPos)
}

func relativePos(offset, base int) int {
	switch offset {
	case offsetInvalid:
		return NotADictPos
	case offsetZero:
		return base
	default:
		return base + offset
	}
}

func readCodePoint(c *Cursor) (int, error) {
	first, err := c.peekUint8()
	if err != nil {
		return 0, err
	}
	if first >= minOneByteCharacter {
		c.Pos++
		return first, nil
	}
	if first == charArrayTerminator {
		c.Pos++
		return NotACodePoint, nil
	}
	return c.readUint24()
}
