// Package wal journals additional-segment appends so they survive a restart
package wal

import "errors"

var (
	// ErrCorrupted indicates a corrupted journal entry (CRC mismatch)
	ErrCorrupted = errors.New("wal: corrupted entry")

	// ErrLogClosed indicates an operation on a closed journal
	ErrLogClosed = errors.New("wal: log closed")

	// ErrTruncated indicates a truncated journal entry
	ErrTruncated = errors.New("wal: truncated entry")

	// ErrNotReplayed indicates a write to a journal whose entries were not replayed
	ErrNotReplayed = errors.New("wal: journal not replayed")

	// ErrGap indicates an entry whose offset does not continue the segment
	ErrGap = errors.New("wal: offset gap")
)
