package buffer

import "errors"

var (
	// ErrOutOfBounds indicates a read at or past the tail position
	ErrOutOfBounds = errors.New("buffer: position out of bounds")

	// ErrBufferFull indicates the additional segment reached its capacity
	ErrBufferFull = errors.New("buffer: additional segment full")

	// ErrClosed indicates an operation on a closed buffer
	ErrClosed = errors.New("buffer: closed")
)
