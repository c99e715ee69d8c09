package wal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"
)

const (
	// EntryHeaderSize is the fixed size of the entry header
	// Layout: LSN(8) + Offset(8) + Len(4) + Reserved(4) + Timestamp(8)
	EntryHeaderSize = 32
)

// Entry is one append to the additional segment
type Entry struct {
	LSN       uint64    // Log Sequence Number (monotonically increasing)
	Offset    uint64    // Local offset inside the additional segment
	Data      []byte    // Appended bytes
	Timestamp time.Time // Entry timestamp
}

// Encode serializes the entry to bytes with CRC32 checksum
// Format: [Header(32)] [Data] [CRC32(4)]
func (e *Entry) Encode() []byte {
	buf := make([]byte, e.Size())

	binary.LittleEndian.PutUint64(buf[0:8], e.LSN)
	binary.LittleEndian.PutUint64(buf[8:16], e.Offset)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(e.Data)))
	// bytes 20-23 are reserved
	binary.LittleEndian.PutUint64(buf[24:32], uint64(e.Timestamp.Unix()))

	end := EntryHeaderSize + copy(buf[EntryHeaderSize:], e.Data)
	crc := crc32.ChecksumIEEE(buf[:end])
	binary.LittleEndian.PutUint32(buf[end:end+4], crc)

	return buf
}

// DecodeEntry deserializes a journal entry from bytes
func DecodeEntry(data []byte) (*Entry, error) {
	if len(data) < EntryHeaderSize+4 {
		return nil, ErrTruncated
	}

	dataLen := binary.LittleEndian.Uint32(data[16:20])
	expectedSize := EntryHeaderSize + int(dataLen) + 4
	if len(data) < expectedSize {
		return nil, ErrTruncated
	}
	data = data[:expectedSize]

	storedCRC := binary.LittleEndian.Uint32(data[expectedSize-4:])
	if storedCRC != crc32.ChecksumIEEE(data[:expectedSize-4]) {
		return nil, ErrCorrupted
	}

	entry := &Entry{
		LSN:       binary.LittleEndian.Uint64(data[0:8]),
		Offset:    binary.LittleEndian.Uint64(data[8:16]),
		Timestamp: time.Unix(int64(binary.LittleEndian.Uint64(data[24:32])), 0),
	}
	if dataLen > 0 {
		entry.Data = make([]byte, dataLen)
		copy(entry.Data, data[EntryHeaderSize:EntryHeaderSize+int(dataLen)])
	}
	return entry, nil
}

// Size returns the encoded size of the entry
func (e *Entry) Size() int {
	return EntryHeaderSize + len(e.Data) + 4
}

// String returns a human-readable representation of the entry
func (e *Entry) String() string {
	return fmt.Sprintf("WAL[LSN=%d Offset=%d Len=%d]", e.LSN, e.Offset, len(e.Data))
}
