package mapping

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedMapping is returned for table, column and static column
	// arguments that do not follow their textual form.
	ErrMalformedMapping = errors.New("malformed mapping")
	// ErrMalformedUpdateRule is returned for update rules that are not of
	// the form source_column=value:dest_column=value.
	ErrMalformedUpdateRule = errors.New("malformed update rule")
)

// ParseError describes a single argument that failed to parse.
// errors.Is(err, ErrMalformedMapping) or errors.Is(err, ErrMalformedUpdateRule)
// reports its kind.
type ParseError struct {
	Kind     error
	Input    string
	Expected string
	Reason   string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%v %q", e.Kind, e.Input)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(", expected '%s'", e.Expected)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func malformed(input, expected, reason string) error {
	return &ParseError{Kind: ErrMalformedMapping, Input: input, Expected: expected, Reason: reason}
}

func malformedUpdate(input, reason string) error {
	return &ParseError{Kind: ErrMalformedUpdateRule, Input: input, Expected: updateForm, Reason: reason}
}
