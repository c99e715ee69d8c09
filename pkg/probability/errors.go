package probability

import "errors"

var (
	// ErrInvalidEntry indicates an encoded entry of the wrong size
	ErrInvalidEntry = errors.New("probability: invalid entry")

	// ErrInvalidTerminalID indicates a negative terminal id
	ErrInvalidTerminalID = errors.New("probability: invalid terminal id")
)
