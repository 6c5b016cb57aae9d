package dataprocessing

import (
	"errors"
	"strings"
)

// ErrNoParser is returned when no registered parser handles a file
var ErrNoParser = errors.New("no parser found for file")

// StructuralError reports a table that does not have the expected shape
type StructuralError struct {
	Problems []string
}

func (e *StructuralError) Error() string {
	return "Invalid file structure: " + strings.Join(e.Problems, ", ")
}
