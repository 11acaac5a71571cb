// pkg/pw_err/util.go

package pw_err

import (
	"errors"
	"fmt"
	"io"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var debugMode bool

func SetDebugMode(enabled bool) {
	debugMode = enabled
}

func DebugEnabled() bool {
	return debugMode
}

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// WrapSystemError attaches a stack and a hint to an unexpected failure.
func WrapSystemError(err error, hint string) error {
	if err == nil {
		return nil
	}
	return cerr.WithHint(cerr.WithStack(err), hint)
}

// PrintError writes a human-readable error to w and logs it. Expected
// errors are notices; everything else is an error.
func PrintError(w io.Writer, log *zap.Logger, userMessage string, err error) {
	if err == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}

	if IsExpectedUserError(err) {
		log.Warn(userMessage, zap.Error(err))
		fmt.Fprintf(w, "Notice: %s: %v\n", userMessage, err)
	} else {
		log.Error(userMessage, zap.Error(err))
		fmt.Fprintf(w, "Error: %s: %v\n", userMessage, err)
	}

	if DebugEnabled() {
		fmt.Fprintf(w, "%+v\n", err)
	}
	for _, hint := range cerr.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
