package analysis

import "errors"

var (
	// ErrUnknownType is returned when no factory is registered for a type
	ErrUnknownType = errors.New("unknown analysis type")
	// ErrNotDetected is returned when no registered detector accepts a table
	ErrNotDetected = errors.New("could not auto-detect analysis type")
)
