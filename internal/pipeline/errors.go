package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies one step of a merge run.
type Stage int

const (
	// StageExtract reads spreadsheets from the input directory.
	StageExtract Stage = iota
	// StageTransform concatenates the extracted tables.
	StageTransform
	// StageLoad writes the merged table.
	StageLoad
)

// String returns the string representation of Stage.
func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageTransform:
		return "transform"
	case StageLoad:
		return "load"
	default:
		return "unknown"
	}
}

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// KindNotFound means the input directory is missing or unreadable.
	KindNotFound ErrorKind = iota + 1
	// KindParseFailure means a discovered file is not a readable spreadsheet.
	KindParseFailure
	// KindInvalidInput means a stage was given input it refuses, such as an empty batch.
	KindInvalidInput
	// KindWriteFailure means the output directory or file could not be written.
	KindWriteFailure
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindParseFailure:
		return "parse failure"
	case KindInvalidInput:
		return "invalid input"
	case KindWriteFailure:
		return "write failure"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error.
var (
	ErrNotFound     = errors.New("not found")
	ErrParseFailure = errors.New("parse failure")
	ErrInvalidInput = errors.New("invalid input")
	ErrWriteFailure = errors.New("write failure")
)

// Error is returned by every stage. It names the stage, the kind of failure
// and the path involved, if any.
type Error struct {
	Stage   Stage     // Stage that failed
	Kind    ErrorKind // Failure classification
	Path    string    // File or directory involved (optional)
	Message string    // Human-readable summary
	Err     error     // Underlying error (optional)
}

func newError(stage Stage, kind ErrorKind, path, msg string, err error) *Error {
	return &Error{Stage: stage, Kind: kind, Path: path, Message: msg, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Stage, e.Message))
	if e.Path != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Path))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels, so errors.Is(err, ErrNotFound) works
// without unwrapping by hand.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrParseFailure:
		return e.Kind == KindParseFailure
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrWriteFailure:
		return e.Kind == KindWriteFailure
	}
	return false
}

// KindOf returns the ErrorKind of a pipeline error anywhere in err's chain,
// or 0 when err did not come from a stage.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}
