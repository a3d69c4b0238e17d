package pipeline

import "fmt"

// Stage names, in execution order.
const (
	StageExtract  = "extract"
	StageCode     = "code"
	StageValidate = "validate"
	StageMerge    = "merge"
)

// StageError wraps an error with the pipeline stage where it occurred.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
