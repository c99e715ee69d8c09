// ABOUTME: Unit tests for the dual-segment buffer
// ABOUTME: Tests address translation, append-only growth, snapshots and file mapping

package buffer

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	b := New([]byte{1, 2, 3, 4}, 16)
	_, err := b.Append([]byte{5, 6})
	require.NoError(t, err)

	v := b.Snapshot()
	assert.Equal(t, 6, v.TailPosition())

	addr := v.Translate(2)
	assert.Equal(t, SegmentOriginal, addr.Segment)
	assert.Equal(t, 2, addr.Offset)
	assert.Equal(t, 2, addr.Logical())

	addr = v.Translate(5)
	assert.Equal(t, SegmentAdditional, addr.Segment)
	assert.Equal(t, 1, addr.Offset)
	assert.Equal(t, 5, addr.Logical())
}

func TestByteAtAcrossSegments(t *testing.T) {
	b := New([]byte{10, 11, 12}, 8)
	pos, err := b.Append([]byte{13, 14})
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	v := b.Snapshot()
	for i := 0; i < 5; i++ {
		got, err := v.ByteAt(i)
		require.NoError(t, err)
		assert.Equal(t, byte(10+i), got)
	}

	_, err = v.ByteAt(5)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	_, err = v.ByteAt(-1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestAppendBounded(t *testing.T) {
	b := New(nil, 4)
	_, err := b.Append([]byte{1, 2, 3})
	require.NoError(t, err)

	_, err = b.Append([]byte{4, 5})
	assert.True(t, errors.Is(err, ErrBufferFull))
	assert.Equal(t, 3, b.TailPosition())
}

func TestSnapshotIsStable(t *testing.T) {
	b := New([]byte{1}, 64)
	_, err := b.Append([]byte{2})
	require.NoError(t, err)

	v := b.Snapshot()
	for i := 0; i < 10; i++ {
		_, err := b.Append([]byte{byte(i)})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, v.TailPosition())
	got, err := v.ByteAt(1)
	require.NoError(t, err)
	assert.Equal(t, byte(2), got)
	assert.Equal(t, 12, b.TailPosition())
}

func TestConcurrentAppendAndRead(t *testing.T) {
	b := New([]byte{0xAA}, 1024)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			b.Append([]byte{byte(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			v := b.Snapshot()
			if got, err := v.ByteAt(0); err != nil || got != 0xAA {
				t.Errorf("unexpected read: %x %v", got, err)
				return
			}
		}
	}()
	wg.Wait()

	assert.Equal(t, 501, b.TailPosition())
}

func TestCloseWhileQueryingSizes(t *testing.T) {
	b := New([]byte{1, 2, 3, 4}, 16)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n := b.OriginalSize()
			if n != 4 && n != 0 {
				t.Errorf("original size %d", n)
				return
			}
			b.IsInAdditional(2)
		}
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, b.Close())
	}()
	wg.Wait()

	assert.Zero(t, b.OriginalSize())
	assert.True(t, b.IsInAdditional(0))
	_, err := b.Append([]byte{1})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.dict")
	require.NoError(t, WriteFile(path, []byte{7, 8, 9}))

	b, err := OpenFile(path, 8)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 3, b.OriginalSize())
	assert.False(t, b.IsInAdditional(2))
	assert.True(t, b.IsInAdditional(3))

	got, err := b.Snapshot().ByteAt(2)
	require.NoError(t, err)
	assert.Equal(t, byte(9), got)

	require.NoError(t, b.Close())
	_, err = b.Append([]byte{1})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dict")
	require.NoError(t, WriteFile(path, nil))

	b, err := OpenFile(path, 8)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 0, b.TailPosition())
}
