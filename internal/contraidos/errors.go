package contraidos

import "fmt"

// ClassificationError reports a row that cannot become an operation
type ClassificationError struct {
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("row %d: column %q value %v: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// AnalysisError reports a failure in a pipeline stage
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
