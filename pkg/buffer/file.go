// ABOUTME: Read-only memory mapping of a dictionary body file
// ABOUTME: The mapped file becomes the original segment of a Buffer

package buffer

import (
	"fmt"
	"os"
	"syscall"
)

// OpenFile maps the dictionary body at path as the original segment
func OpenFile(path string, maxAdditional int) (*Buffer, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer syscall.Close(fd)

	var stat syscall.Stat_t
	if err := syscall.Fstat(fd, &stat); err != nil {
		return nil, fmt.Errorf("fstat: %w", err)
	}

	// mmap rejects zero-length mappings
	if stat.Size == 0 {
		return New(nil, maxAdditional), nil
	}

	chunk, err := syscall.Mmap(fd, 0, int(stat.Size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	b := New(chunk, maxAdditional)
	b.unmap = func() error {
		return syscall.Munmap(chunk)
	}
	return b, nil
}

// WriteFile stores a dictionary body so that OpenFile can map it
func WriteFile(path string, body []byte) error {
	return os.WriteFile(path, body, 0644)
}
