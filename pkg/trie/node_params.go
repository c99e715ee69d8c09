// ABOUTME: Decoded node record returned by the node reader
// ABOUTME: Holds positions and copied values only, never buffer memory

package trie

import (
	"fmt"

	"github.com/nainya/triedict/pkg/codec"
)

// NodeParams describes one resolved trie node
type NodeParams struct {
	HeadPos             int
	Flags               codec.Flags
	ParentPos           int
	CodePoints          []int
	TerminalIDFieldPos  int
	TerminalID          int
	Probability         int
	ChildrenPosFieldPos int
	ChildrenPos         int

	// SiblingPos is where the next sibling's record begins. For a moved
	// node it is the end of the stub the caller asked for, not of the target.
	SiblingPos int
}

// NewNodeParams returns the inert record used for unreadable positions
func NewNodeParams() NodeParams {
	return NodeParams{
		HeadPos:             codec.NotADictPos,
		ParentPos:           codec.NotADictPos,
		TerminalIDFieldPos:  codec.NotADictPos,
		TerminalID:          codec.NotATerminalID,
		Probability:         codec.NotAProbability,
		ChildrenPosFieldPos: codec.NotADictPos,
		ChildrenPos:         codec.NotADictPos,
		SiblingPos:          codec.NotADictPos,
	}
}

// IsValid reports whether the record was read from the dictionary
func (p NodeParams) IsValid() bool {
	return p.HeadPos != codec.NotADictPos
}

func (p NodeParams) IsTerminal() bool         { return p.Flags.IsTerminal() }
func (p NodeParams) IsMoved() bool            { return p.Flags.IsMoved() }
func (p NodeParams) IsDeleted() bool          { return p.Flags.IsDeleted() }
func (p NodeParams) IsNotAWord() bool         { return p.Flags.IsNotAWord() }
func (p NodeParams) IsBlacklisted() bool      { return p.Flags.IsBlacklisted() }
func (p NodeParams) HasShortcutTargets() bool { return p.Flags.HasShortcutTargets() }
func (p NodeParams) HasBigrams() bool         { return p.Flags.HasBigrams() }
func (p NodeParams) HasMultipleChars() bool   { return p.Flags.HasMultipleChars() }

// HasChildren reports whether the node links to a child array
func (p NodeParams) HasChildren() bool {
	return p.ChildrenPos != codec.NotADictPos
}

// Word returns the node's characters as text
func (p NodeParams) Word() string {
	runes := make([]rune, len(p.CodePoints))
	for i, cp := range p.CodePoints {
		runes[i] = rune(cp)
	}
	return string(runes)
}

func (p NodeParams) String() string {
	if !p.IsValid() {
		return "Node[invalid]"
	}
	return fmt.Sprintf("Node[head=%d chars=%q terminal=%t p=%d children=%d sibling=%d]",
		p.HeadPos, p.Word(), p.IsTerminal(), p.Probability, p.ChildrenPos, p.SiblingPos)
}
