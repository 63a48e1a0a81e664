package runner

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("invalid run config")
	ErrCompileFailed = errors.New("compile failed")
	ErrSink          = errors.New("progress sink failed")
	ErrWorkerPanic   = errors.New("worker panicked")
)

// ErrorKind classifies a per-case failure.
type ErrorKind int

const (
	InputOpen ErrorKind = iota
	SpawnFailed
	StepFailed
	OutputWrite
	ScoreMissing
	WrongAnswer
)

func (k ErrorKind) String() string {
	switch k {
	case InputOpen:
		return "input_open"
	case SpawnFailed:
		return "spawn_failed"
	case StepFailed:
		return "step_failed"
	case OutputWrite:
		return "output_write"
	case ScoreMissing:
		return "score_missing"
	case WrongAnswer:
		return "wrong_answer"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// CaseError is a failure confined to a single test case. It is turned into
// a Failure result instead of aborting the run.
type CaseError struct {
	Kind   ErrorKind
	Path   string
	Cmd    string
	Status string
	Err    error
}

func (e *CaseError) Error() string {
	switch e.Kind {
	case InputOpen:
		return fmt.Sprintf("Failed to open input file %s: %v", e.Path, e.Err)
	case SpawnFailed:
		return fmt.Sprintf("Failed to start %s: %v", e.Cmd, e.Err)
	case StepFailed:
		if e.Status != "" {
			return fmt.Sprintf("Failed to run %s: %s", e.Cmd, e.Status)
		}
		return fmt.Sprintf("Failed to run %s: %v", e.Cmd, e.Err)
	case OutputWrite:
		return fmt.Sprintf("Failed to write output file %s: %v", e.Path, e.Err)
	case ScoreMissing:
		return "Score not found"
	case WrongAnswer:
		return "Wrong Answer"
	default:
		return fmt.Sprintf("case error (%s)", e.Kind)
	}
}

func (e *CaseError) Unwrap() error { return e.Err }
