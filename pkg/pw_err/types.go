// pkg/pw_err/types.go

package pw_err

import "errors"

// ErrNotTTY is returned when an interactive surface has no terminal.
var ErrNotTTY = errors.New("cannot start interactive mode: not a TTY")

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}
