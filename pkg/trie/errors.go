package trie

import "errors"

var (
	// ErrInvalidConfig indicates a NodeReaderConfig missing a collaborator
	ErrInvalidConfig = errors.New("trie: invalid reader config")

	// ErrInvalidArray indicates a PtNode array that cannot be read
	ErrInvalidArray = errors.New("trie: invalid node array")
)
