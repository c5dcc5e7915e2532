package samup

import (
	"errors"
	"fmt"
)

// Sentinel errors for transcription.
var (
	// ErrStackMismatch reports an internal invariant violation: the engine
	// expected a specific construct on top of the stack and found another.
	// It is unreachable through the public API given a correct transition
	// table and is surfaced, not panicked, so tests can assert on it.
	ErrStackMismatch = errors.New("construct stack mismatch")
	// ErrSyntax reports malformed footnote markup.
	ErrSyntax = errors.New("syntax violation")
)

// SyntaxError describes a malformed footnote sequence at a byte offset.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax violation at byte %d: %s", e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxErr(offset int, reason string) error {
	return &SyntaxError{Offset: offset, Reason: reason}
}
