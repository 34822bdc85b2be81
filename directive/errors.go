package directive

import (
	"errors"
	"strconv"
)

// Error kinds. Every failure returned by the expander matches exactly one of
// these with errors.Is.
var (
	ErrMissingFragment      = errors.New("missing fragment")
	ErrMissingSource        = errors.New("missing markdown source")
	ErrUndefinedAttribute   = errors.New("undefined attribute")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidDate          = errors.New("invalid date")
)

// Error is a directive that could not be resolved on a page.
type Error struct {
	Kind error  // one of the Err* values above
	Page string // page file name
	Name string // fragment name, markdown path or attribute name
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg += " " + strconv.Quote(e.Name)
	}
	if e.Page != "" {
		msg = e.Page + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
