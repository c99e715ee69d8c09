package wal

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nainya/triedict/pkg/buffer"
)

func TestEntryEncodeDecode(t *testing.T) {
	entry := &Entry{
		LSN:       42,
		Offset:    128,
		Data:      []byte{0xC0, 0x00, 0x00, 0x01, 'a'},
		Timestamp: time.Unix(1700000000, 0),
	}

	decoded, err := DecodeEntry(entry.Encode())
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.LSN != entry.LSN || decoded.Offset != entry.Offset {
		t.Errorf("header mismatch: got %s, want %s", decoded, entry)
	}
	if !bytes.Equal(decoded.Data, entry.Data) {
		t.Errorf("data mismatch: got %x, want %x", decoded.Data, entry.Data)
	}
	if !decoded.Timestamp.Equal(entry.Timestamp) {
		t.Errorf("timestamp mismatch: got %v, want %v", decoded.Timestamp, entry.Timestamp)
	}
}

func TestEntryCorruption(t *testing.T) {
	entry := &Entry{LSN: 1, Data: []byte("node")}
	data := entry.Encode()
	data[EntryHeaderSize] ^= 0xFF

	if _, err := DecodeEntry(data); !errors.Is(err, ErrCorrupted) {
		t.Errorf("expected ErrCorrupted, got %v", err)
	}
	if _, err := DecodeEntry(data[:EntryHeaderSize]); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestRecordAndReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.wal")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := w.Replay(func(*Entry) error { return nil }); err != nil {
		t.Fatalf("replay of empty journal failed: %v", err)
	}
	if err := w.Record(0, []byte{1, 2, 3}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := w.Record(3, []byte{4, 5}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := w.Record(9, []byte{6}); !errors.Is(err, ErrGap) {
		t.Errorf("expected ErrGap for out-of-order offset, got %v", err)
	}
	if w.LSN() != 2 {
		t.Errorf("LSN: got %d, want 2", w.LSN())
	}
	w.Close()

	w, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer w.Close()

	if err := w.Record(0, []byte{9}); !errors.Is(err, ErrNotReplayed) {
		t.Errorf("expected ErrNotReplayed before replay, got %v", err)
	}

	var got []byte
	n, err := w.Replay(func(e *Entry) error {
		got = append(got, e.Data...)
		return nil
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if n != 2 {
		t.Errorf("replayed %d entries, want 2", n)
	}
	if !bytes.Equal(got, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("replayed bytes %v", got)
	}
	if err := w.Record(5, []byte{6}); err != nil {
		t.Errorf("record after replay failed: %v", err)
	}
}

func TestReplayCutsTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.wal")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := w.Record(0, []byte("abc")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	w.Close()

	// Simulate a crash halfway through the second entry
	torn := (&Entry{LSN: 2, Offset: 3, Data: []byte("defg")}).Encode()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		t.Fatalf("open for append failed: %v", err)
	}
	f.Write(torn[:len(torn)-3])
	f.Close()

	w, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer w.Close()

	n, err := w.Replay(func(*Entry) error { return nil })
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if n != 1 {
		t.Errorf("replayed %d entries, want 1", n)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if want := int64((&Entry{Data: []byte("abc")}).Size()); stat.Size() != want {
		t.Errorf("journal size %d after recovery, want %d", stat.Size(), want)
	}
	if err := w.Record(3, []byte("x")); err != nil {
		t.Errorf("record after recovery failed: %v", err)
	}
}

func TestAttachRestoresAdditionalSegment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.wal")
	original := []byte{0xAA, 0xBB}

	w, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	buf := buffer.New(original, 64)
	if _, err := Attach(buf, w); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	pos, err := buf.Append([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if pos != 2 {
		t.Errorf("append position %d, want 2", pos)
	}
	w.Close()

	w, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer w.Close()

	restored := buffer.New(original, 64)
	n, err := Attach(restored, w)
	if err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if n != 1 {
		t.Errorf("replayed %d entries, want 1", n)
	}
	if restored.TailPosition() != 6 {
		t.Fatalf("tail %d, want 6", restored.TailPosition())
	}
	b, err := restored.Snapshot().ByteAt(5)
	if err != nil || b != 4 {
		t.Errorf("byte at 5: got %d, %v", b, err)
	}

	if _, err := restored.Append([]byte{5}); err != nil {
		t.Fatalf("append after restore failed: %v", err)
	}
	if w.LSN() != 2 {
		t.Errorf("LSN after journaled append: got %d, want 2", w.LSN())
	}
}

func TestAppendRejectedWhenJournalClosed(t *testing.T) {
	w, err := Open(filepath.Join(t.TempDir(), "dict.wal"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	buf := buffer.New(nil, 16)
	if _, err := Attach(buf, w); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	w.Close()

	if _, err := buf.Append([]byte{1}); !errors.Is(err, ErrLogClosed) {
		t.Errorf("expected ErrLogClosed, got %v", err)
	}
	if buf.TailPosition() != 0 {
		t.Errorf("failed append became visible, tail %d", buf.TailPosition())
	}
}
