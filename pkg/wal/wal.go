package wal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nainya/triedict/pkg/buffer"
)

// maxEntryData bounds the payload length accepted from a header
const maxEntryData = 1 << 28

// WAL is an append-only journal of additional-segment writes
type WAL struct {
	// Path is the journal file location (e.g., "/data/main.dict.wal")
	Path string

	fd *os.File

	// mu protects concurrent access to WAL
	mu sync.Mutex

	lsn uint64

	// next is the additional-segment offset the next entry must carry
	next uint64

	// ready is set once existing entries have been replayed
	ready  bool
	closed bool

	// now is overridable in tests
	now func() time.Time
}

// Open opens or creates the journal at path
func Open(path string) (*WAL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	stat, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	return &WAL{Path: path, fd: fd, ready: stat.Size() == 0, now: time.Now}, nil
}

// Replay reads every intact entry in order and hands its bytes to apply.
// A torn or corrupted tail is cut off so later writes continue from the
// last good entry. It returns the number of entries applied.
func (w *WAL) Replay(apply func(e *Entry) error) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrLogClosed
	}
	if _, err := w.fd.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	w.lsn, w.next = 0, 0
	var good int64
	applied := 0
	for {
		entry, err := readEntry(w.fd)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, ErrTruncated) || errors.Is(err, ErrCorrupted) {
				break
			}
			return applied, err
		}
		if entry.Offset != w.next {
			return applied, fmt.Errorf("entry LSN %d at offset %d, expected %d: %w",
				entry.LSN, entry.Offset, w.next, ErrGap)
		}
		if err := apply(entry); err != nil {
			return applied, fmt.Errorf("replay failed at LSN %d: %w", entry.LSN, err)
		}
		applied++
		good += int64(entry.Size())
		w.lsn = entry.LSN
		w.next += uint64(len(entry.Data))
	}

	if err := w.fd.Truncate(good); err != nil {
		return applied, err
	}
	if _, err := w.fd.Seek(good, io.SeekStart); err != nil {
		return applied, err
	}
	w.ready = true
	return applied, nil
}

// Record writes one append and fsyncs it. It satisfies buffer.Journal.
func (w *WAL) Record(offset int, p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrLogClosed
	}
	if !w.ready {
		return ErrNotReplayed
	}
	if uint64(offset) != w.next {
		return fmt.Errorf("record at offset %d, expected %d: %w", offset, w.next, ErrGap)
	}

	entry := Entry{
		LSN:       w.lsn + 1,
		Offset:    uint64(offset),
		Data:      p,
		Timestamp: w.now(),
	}
	if _, err := w.fd.Write(entry.Encode()); err != nil {
		return err
	}
	if err := w.fd.Sync(); err != nil {
		return err
	}
	w.lsn = entry.LSN
	w.next += uint64(len(p))
	return nil
}

// LSN returns the sequence number of the last recorded entry
func (w *WAL) LSN() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lsn
}

// Close closes the WAL
func (w *WAL) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fd.Close()
}

// Attach replays the journal into buf and then journals every later append
func Attach(buf *buffer.Buffer, w *WAL) (int, error) {
	n, err := w.Replay(func(e *Entry) error {
		_, err := buf.Append(e.Data)
		return err
	})
	if err != nil {
		return n, err
	}
	buf.SetJournal(w)
	return n, nil
}

// readEntry reads a single entry from the reader
func readEntry(r io.Reader) (*Entry, error) {
	header := make([]byte, EntryHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, ErrTruncated
		}
		return nil, err
	}

	dataLen := binary.LittleEndian.Uint32(header[16:20])
	if dataLen > maxEntryData {
		return nil, ErrCorrupted
	}
	data := make([]byte, EntryHeaderSize+int(dataLen)+4)
	copy(data, header)
	if _, err := io.ReadFull(r, data[EntryHeaderSize:]); err != nil {
		return nil, ErrTruncated
	}
	return DecodeEntry(data)
}
