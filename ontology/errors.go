package ontology

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord matches every *RecordError via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// ErrInvalidIRI is returned by IRI for characters an IRIREF cannot carry.
var ErrInvalidIRI = errors.New("invalid IRI character")

// Reasons reported in RecordError.Err.
var (
	errMissing  = errors.New("missing")
	errEmpty    = errors.New("empty")
	errBadShape = errors.New("unexpected shape")
)

// RecordError reports a record that cannot be converted.
type RecordError struct {
	// Index is the position of the record in its batch, or -1 when the
	// record was parsed on its own.
	Index int

	// ID is the instance @id, when known.
	ID string

	// Field is the offending JSON path, e.g. "cell_type.rdfs:label".
	Field string

	Err error
}

func (e *RecordError) Error() string {
	msg := "malformed record"
	if e.Index >= 0 {
		msg += fmt.Sprintf(" %d", e.Index)
	}
	if e.ID != "" {
		msg += fmt.Sprintf(" (%s)", e.ID)
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMalformedRecord.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func fieldError(id, field string, err error) *RecordError {
	return &RecordError{Index: -1, ID: id, Field: field, Err: err}
}

// atIndex returns err with the batch index set when it is a *RecordError.
func atIndex(err error, index int) error {
	var re *RecordError
	if errors.As(err, &re) {
		c := *re
		c.Index = index
		return &c
	}
	return &RecordError{Index: index, Err: err}
}
