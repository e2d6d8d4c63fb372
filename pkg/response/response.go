package response

import (
	"errors"
)

// Error is a domain error that already knows its HTTP status and the
// machine-readable code clients switch on.
type Error struct {
	Code int
	Key  string
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Key == t.Key
}

func NewError(code int, key string, err string) error {
	return &Error{Code: code, Key: key, Err: errors.New(err)}
}

// Wrap attaches a status and code to an existing error, keeping it
// reachable through errors.Is.
func Wrap(code int, key string, err error) error {
	return &Error{Code: code, Key: key, Err: err}
}
