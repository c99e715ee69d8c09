package codec

import "errors"

var (
	// ErrTruncated indicates a field extends past the tail position
	ErrTruncated = errors.New("codec: truncated field")

	// ErrUnsupportedFormat indicates a format version without a node decoder
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)
