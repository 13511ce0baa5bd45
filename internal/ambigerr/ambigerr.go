// Package ambigerr is the detector's error taxonomy. It distinguishes the
// locally recovered case (a latent illegal semantic surfaced by
// --semantic-check, which just discards the offending path) from the fatal
// ones (an impossible illegal mid-force-complete, a conjugation failure, a
// test-mode mismatch, or an ill-formed grammar), using a small error type
// with a public constructor family and an Unwrap chain. The other
// recoverable condition of enumeration — an illegal semantic merge or
// reduction while a path is being built — is not an error value at all:
// internal/semlist and internal/path represent it with their Discard
// outcome, since discarding a candidate path is ordinary control flow
// there, not a failure to report.
package ambigerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the taxonomy entries.
type Kind int

const (
	// KindLatentIllegalSemantic is a --semantic-check discovery of an
	// illegal state via forced completion. Recovered locally: the path is
	// discarded and the finding logged.
	KindLatentIllegalSemantic Kind = iota

	// KindForceCompleteBug is an illegal RHS merge encountered mid-walk
	// during forced completion — the path should have been discarded
	// earlier. Fatal.
	KindForceCompleteBug

	// KindConjugationFailure is a conjugator exhausting every resolution
	// option without a match. Fatal.
	KindConjugationFailure

	// KindTestModeMismatch is a missing or spurious ambiguity detected by
	// --use-test-rules coverage checking. Fatal.
	KindTestModeMismatch

	// KindIllFormedGrammar is an ambiguous/unambiguous test symbol with
	// fewer than two rules. Fatal, pre-enumeration.
	KindIllFormedGrammar
)

// Error is an error tagged with one of the Kind values above.
type Error struct {
	kind Kind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	if e.wrap != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.wrap)
	}
	return e.msg
}

// Unwrap gives the error e wraps, if it wraps one.
func (e *Error) Unwrap() error { return e.wrap }

// Kind reports which taxonomy entry e belongs to.
func (e *Error) Kind() Kind { return e.kind }

// Fatal reports whether this error's Kind is one of the fatal classes (as
// opposed to a locally recoverable one).
func (e *Error) Fatal() bool {
	switch e.kind {
	case KindForceCompleteBug, KindConjugationFailure, KindTestModeMismatch, KindIllFormedGrammar:
		return true
	default:
		return false
	}
}

// New builds an Error of the given kind.
func New(kind Kind, msg string, wrap error) error {
	return &Error{kind: kind, msg: msg, wrap: wrap}
}

// LatentIllegalSemantic builds a KindLatentIllegalSemantic error.
func LatentIllegalSemantic(msg string) error { return New(KindLatentIllegalSemantic, msg, nil) }

// Fatal builds a KindForceCompleteBug error, the "impossible illegal
// mid-force-complete" case.
func Fatal(msg string, wrap error) error { return New(KindForceCompleteBug, msg, wrap) }

// ConjugationFailure builds a KindConjugationFailure error.
func ConjugationFailure(msg string) error { return New(KindConjugationFailure, msg, nil) }

// TestModeMismatch builds a KindTestModeMismatch error.
func TestModeMismatch(msg string) error { return New(KindTestModeMismatch, msg, nil) }

// IllFormedGrammar builds a KindIllFormedGrammar error.
func IllFormedGrammar(msg string) error { return New(KindIllFormedGrammar, msg, nil) }

// IsFatal reports whether err (or any error it wraps) is one of the fatal
// taxonomy classes. A non-nil err of an unrecognized type is treated as
// fatal, since the driver has no recovery strategy for it.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Fatal()
	}
	return true
}
