// ABOUTME: Probability entries keyed by terminal id
// ABOUTME: Fixed-size big-endian encoding shared by the persisted stores

package probability

import (
	"encoding/binary"
	"fmt"

	"github.com/nainya/triedict/pkg/codec"
)

const (
	// EntrySize is the encoded size of an Entry
	// Layout: Flags(1) + Probability(1) + Timestamp(4) + Level(1) + Count(1)
	EntrySize = 8

	// NotATimestamp marks an entry without historical info
	NotATimestamp = -1

	// flagNoProbability marks a stored entry without a raw probability.
	// It is reserved in Entry.Flags.
	flagNoProbability = 0x80
)

// HistoricalInfo records how recently and how often a word was used
type HistoricalInfo struct {
	Timestamp int // seconds since epoch, NotATimestamp when absent
	Level     int
	Count     int
}

// IsValid reports whether the info carries a timestamp
func (h HistoricalInfo) IsValid() bool {
	return h.Timestamp != NotATimestamp
}

// Entry is the probability record of one terminal
type Entry struct {
	Flags          uint8
	Probability    int
	HistoricalInfo HistoricalInfo
}

// NewEntry creates an entry with a raw probability only
func NewEntry(probability int) Entry {
	return Entry{
		Probability:    probability,
		HistoricalInfo: HistoricalInfo{Timestamp: NotATimestamp},
	}
}

// NewHistoricalEntry creates an entry whose probability comes from usage history
func NewHistoricalEntry(info HistoricalInfo) Entry {
	return Entry{
		Probability:    codec.NotAProbability,
		HistoricalInfo: info,
	}
}

// HasHistoricalInfo reports whether the probability must be decayed
func (e Entry) HasHistoricalInfo() bool {
	return e.HistoricalInfo.IsValid()
}

// Encode serializes the entry
func (e Entry) Encode() []byte {
	buf := make([]byte, EntrySize)
	buf[0] = e.Flags &^ flagNoProbability
	if e.Probability < 0 {
		buf[0] |= flagNoProbability
	}
	buf[1] = encodeProbability(e.Probability)
	ts := uint32(0xFFFFFFFF)
	if e.HistoricalInfo.IsValid() {
		ts = uint32(e.HistoricalInfo.Timestamp)
	}
	binary.BigEndian.PutUint32(buf[2:6], ts)
	buf[6] = uint8(e.HistoricalInfo.Level)
	buf[7] = uint8(e.HistoricalInfo.Count)
	return buf
}

// DecodeEntry deserializes an entry
func DecodeEntry(data []byte) (Entry, error) {
	if len(data) != EntrySize {
		return Entry{}, fmt.Errorf("entry of %d bytes: %w", len(data), ErrInvalidEntry)
	}

	e := Entry{
		Flags:       data[0] &^ flagNoProbability,
		Probability: int(data[1]),
		HistoricalInfo: HistoricalInfo{
			Timestamp: NotATimestamp,
			Level:     int(data[6]),
			Count:     int(data[7]),
		},
	}
	if data[0]&flagNoProbability != 0 {
		e.Probability = codec.NotAProbability
	}
	if ts := binary.BigEndian.Uint32(data[2:6]); ts != 0xFFFFFFFF {
		e.HistoricalInfo.Timestamp = int(ts)
	}
	return e, nil
}

// String returns a human-readable representation of the entry
func (e Entry) String() string {
	if e.HasHistoricalInfo() {
		return fmt.Sprintf("Entry[ts=%d level=%d count=%d]",
			e.HistoricalInfo.Timestamp, e.HistoricalInfo.Level, e.HistoricalInfo.Count)
	}
	return fmt.Sprintf("Entry[p=%d]", e.Probability)
}

func encodeProbability(p int) byte {
	if p < 0 {
		return 0
	}
	if p > codec.MaxProbability {
		return codec.MaxProbability
	}
	return byte(p)
}

// EncodeKey encodes a terminal id as an order-preserving store key
func EncodeKey(terminalID int) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(terminalID))
	return buf[:]
}
