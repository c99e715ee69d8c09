// ABOUTME: Sentinels and limits shared by the dictionary field codecs
// ABOUTME: Values follow the on-disk conventions of the patricia trie format

package codec

import "math"

const (
	// NotADictPos marks an absent position (no parent, no children, not terminal)
	NotADictPos = math.MinInt32

	// NotATerminalID marks a node without a terminal id
	NotATerminalID = -1

	// NotAProbability marks a node without a probability
	NotAProbability = -1

	// NotACodePoint is returned when a character terminator is read
	NotACodePoint = -1

	// MaxWordLength bounds the code points decoded for one node
	MaxWordLength = 48

	// MaxProbability is the highest encodable probability
	MaxProbability = 255
)

const (
	// offsetInvalid encodes "no position" in relative fields
	offsetInvalid = 0

	// offsetZero encodes a relative offset of zero, since 0 is taken by offsetInvalid
	offsetZero = 0x7FFFFF

	maxSint24 = 0x7FFFFF

	minOneByteCharacter = 0x20
	charArrayTerminator = 0x1F

	terminalIDFieldSize = 4
)
