package instrument

import (
	"errors"
	"fmt"
)

// Fatal reference-data errors. They indicate a seeding or migration defect and
// are never swallowed or retried.
var (
	ErrNormTableOverlap          = errors.New("norm table overlap")
	ErrUnknownInstrumentFamily   = errors.New("unknown instrument family")
	ErrMissingPatternTable       = errors.New("missing pattern table")
	ErrInconsistentItemPartition = errors.New("inconsistent item partition")
	ErrInvalidDefinition         = errors.New("invalid instrument definition")
)

// ReferenceError carries the context needed to diagnose a fatal
// reference-data error. Use errors.Is against the Err* sentinels.
type ReferenceError struct {
	Kind       error
	Instrument string
	Subject    string // domain code, pattern name or item number
	Detail     string
}

func (e *ReferenceError) Error() string {
	msg := fmt.Sprintf("instrument %s: %v", e.Instrument, e.Kind)
	if e.Subject != "" {
		msg += fmt.Sprintf(" [%s]", e.Subject)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ReferenceError) Unwrap() error { return e.Kind }

func refErr(kind error, inst, subject, format string, args ...any) *ReferenceError {
	return &ReferenceError{
		Kind:       kind,
		Instrument: inst,
		Subject:    subject,
		Detail:     fmt.Sprintf(format, args...),
	}
}
