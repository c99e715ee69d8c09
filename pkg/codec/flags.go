package codec

// Flags is the first byte of a node record
type Flags uint8

const (
	FlagHasMultipleChars   Flags = 0x20
	FlagIsTerminal         Flags = 0x10
	FlagHasShortcutTargets Flags = 0x08
	FlagHasBigrams         Flags = 0x04
	FlagIsNotAWord         Flags = 0x02
	FlagIsBlacklisted      Flags = 0x01

	// The two high bits hold the move state of dynamic formats
	MaskMoveState             Flags = 0xC0
	FlagIsNotMoved            Flags = 0xC0
	FlagIsMoved               Flags = 0x40
	FlagIsDeleted             Flags = 0x80
	FlagWillBecomeNonTerminal Flags = 0x00
)

func (f Flags) HasMultipleChars() bool   { return f&FlagHasMultipleChars != 0 }
func (f Flags) IsTerminal() bool         { return f&FlagIsTerminal != 0 }
func (f Flags) HasShortcutTargets() bool { return f&FlagHasShortcutTargets != 0 }
func (f Flags) HasBigrams() bool         { return f&FlagHasBigrams != 0 }
func (f Flags) IsNotAWord() bool         { return f&FlagIsNotAWord != 0 }
func (f Flags) IsBlacklisted() bool      { return f&FlagIsBlacklisted != 0 }

// IsMoved reports whether the record forwards to a relocated node
func (f Flags) IsMoved() bool { return f&MaskMoveState == FlagIsMoved }

// IsDeleted reports whether the record was removed by a writer
func (f Flags) IsDeleted() bool { return f&MaskMoveState == FlagIsDeleted }

// WillBecomeNonTerminal reports whether a writer is demoting the node
func (f Flags) WillBecomeNonTerminal() bool {
	return f&MaskMoveState == FlagWillBecomeNonTerminal
}
