package funcs

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// Kind classifies a registry failure.
type Kind int

const (
	InvalidInput Kind = iota + 1
	NotFound
	EvaluationFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid-input"
	case NotFound:
		return "not-found"
	case EvaluationFailure:
		return "evaluation-failure"
	default:
		return "unknown"
	}
}

// Error is a failure reported to the caller as {error, stack?}.
type Error struct {
	Kind    Kind
	Message string
	Stack   string
}

func (e *Error) Error() string { return e.Message }

// ExitCode is the process exit status for any registry failure.
func (e *Error) ExitCode() int { return 1 }

func invalidInput(msg string) *Error { return &Error{Kind: InvalidInput, Message: msg} }

type errorPayload struct {
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}

// WriteError encodes err as a single-line {error, stack?} object. Errors that
// are not *Error are collapsed onto one line and carry no stack.
func WriteError(w io.Writer, err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return writeLine(w, errorPayload{Error: fe.Message, Stack: fe.Stack})
	}
	return writeLine(w, errorPayload{Error: sanitizeErrorMessage(err.Error())})
}

func sanitizeErrorMessage(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

func writeLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
