// ABOUTME: Probability store implementations consumed by the node reader
// ABOUTME: An in-memory map store and a LevelDB-backed persistent store

package probability

import (
	"errors"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/nainya/triedict/pkg/codec"
)

// Store maps terminal ids to probability entries.
// Unknown ids yield an entry with NotAProbability and no history; an error
// means the entry exists but could not be read.
type Store interface {
	GetEntry(terminalID int) (Entry, error)
}

// MemStore keeps entries in memory
type MemStore struct {
	mu      sync.RWMutex
	entries map[int]Entry
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[int]Entry)}
}

// Put stores or replaces the entry of a terminal id
func (s *MemStore) Put(terminalID int, e Entry) error {
	if terminalID < 0 {
		return fmt.Errorf("put %d: %w", terminalID, ErrInvalidTerminalID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[terminalID] = e
	return nil
}

func (s *MemStore) GetEntry(terminalID int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[terminalID]; ok {
		return e, nil
	}
	return NewEntry(codec.NotAProbability), nil
}

// Len returns the number of stored entries
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LevelStore persists entries in LevelDB
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens or creates a LevelDB store at path
func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("open probability store %s: %w", path, err)
	}
	return &LevelStore{db: db}, nil
}

// OpenMemLevelStore opens a LevelDB store over in-memory storage
func OpenMemLevelStore() (*LevelStore, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory probability store: %w", err)
	}
	return &LevelStore{db: db}, nil
}

// Put stores or replaces the entry of a terminal id
func (s *LevelStore) Put(terminalID int, e Entry) error {
	if terminalID < 0 {
		return fmt.Errorf("put %d: %w", terminalID, ErrInvalidTerminalID)
	}
	if err := s.db.Put(EncodeKey(terminalID), e.Encode(), nil); err != nil {
		return fmt.Errorf("put %d: %w", terminalID, err)
	}
	return nil
}

// PutBatch stores many entries atomically
func (s *LevelStore) PutBatch(entries map[int]Entry) error {
	batch := new(leveldb.Batch)
	for id, e := range entries {
		if id < 0 {
			return fmt.Errorf("put %d: %w", id, ErrInvalidTerminalID)
		}
		batch.Put(EncodeKey(id), e.Encode())
	}
	return s.db.Write(batch, nil)
}

func (s *LevelStore) GetEntry(terminalID int) (Entry, error) {
	if terminalID < 0 {
		return NewEntry(codec.NotAProbability), nil
	}
	data, err := s.db.Get(EncodeKey(terminalID), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return NewEntry(codec.NotAProbability), nil
		}
		return NewEntry(codec.NotAProbability), fmt.Errorf("get %d: %w", terminalID, err)
	}
	e, err := DecodeEntry(data)
	if err != nil {
		return NewEntry(codec.NotAProbability), fmt.Errorf("get %d: %w", terminalID, err)
	}
	return e, nil
}

// Len counts the stored entries
func (s *LevelStore) Len() (int, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Close closes the underlying database
func (s *LevelStore) Close() error {
	return s.db.Close()
}
