// ABOUTME: Encoders mirroring the version 4 field decoders
// ABOUTME: Used to build dictionary fixtures and tooling input

package codec

import "fmt"

// NodeFields describes a node record to encode
type NodeFields struct {
	Flags       Flags
	ParentPos   int // relocation target when Flags is moved
	CodePoints  []int
	TerminalID  int // ignored unless Flags is terminal
	ChildrenPos int
}

// AppendNode encodes n as if its first byte lands at headPos.
// The multiple-chars flag is derived from the number of code points.
func AppendNode(dst []byte, headPos int, n NodeFields) []byte {
	start := len(dst)
	fieldPos := func() int { return headPos + len(dst) - start }

	flags := n.Flags &^ FlagHasMultipleChars
	if len(n.CodePoints) != 1 {
		flags |= FlagHasMultipleChars
	}
	dst = append(dst, byte(flags))
	dst = AppendRelativePos(dst, n.ParentPos, headPos)
	dst = AppendCodePoints(dst, n.CodePoints, flags.HasMultipleChars())
	if flags.IsTerminal() {
		dst = AppendUint32(dst, n.TerminalID)
	}
	dst = AppendRelativePos(dst, n.ChildrenPos, fieldPos())
	return dst
}

// AppendRelativePos encodes pos relative to base; NotADictPos encodes as absent
func AppendRelativePos(dst []byte, pos, base int) []byte {
	if pos == NotADictPos {
		return AppendSint24(dst, offsetInvalid)
	}
	offset := pos - base
	if offset == 0 {
		offset = offsetZero
	}
	return AppendSint24(dst, offset)
}

// AppendSint24 encodes v as a sign-magnitude 24-bit integer
func AppendSint24(dst []byte, v int) []byte {
	u := v
	if v < 0 {
		u = -v
	}
	if u > maxSint24 {
		panic(fmt.Sprintf("sint24 out of range: %d", v))
	}
	if v < 0 {
		u |= 0x800000
	}
	return append(dst, byte(u>>16), byte(u>>8), byte(u))
}

// AppendUint32 encodes v big-endian in 4 bytes
func AppendUint32(dst []byte, v int) []byte {
	return append(dst, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// AppendCodePoint encodes one character in 1 or 3 bytes
func AppendCodePoint(dst []byte, cp int) []byte {
	if cp >= minOneByteCharacter && cp <= 0xFF {
		return append(dst, byte(cp))
	}
	if cp>>16 >= charArrayTerminator {
		panic(fmt.Sprintf("code point out of range: %#x", cp))
	}
	return append(dst, byte(cp>>16), byte(cp>>8), byte(cp))
}

// AppendCodePoints encodes a single character or a terminated list
func AppendCodePoints(dst []byte, cps []int, multiple bool) []byte {
	for _, cp := range cps {
		dst = AppendCodePoint(dst, cp)
	}
	if multiple {
		dst = append(dst, charArrayTerminator)
	}
	return dst
}

// AppendArraySize encodes a PtNode array node count
func AppendArraySize(dst []byte, n int) []byte {
	if n < 0 || n > 0x7FFF {
		panic(fmt.Sprintf("array size out of range: %d", n))
	}
	if n < 0x80 {
		return append(dst, byte(n))
	}
	return append(dst, byte(0x80|n>>8), byte(n))
}
