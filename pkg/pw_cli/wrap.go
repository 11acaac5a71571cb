// pkg/pw_cli/wrap.go

package pw_cli

import (
	"context"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFunc is the body of a pwgen command.
type RunFunc func(rc *pw_io.RuntimeContext, cmd *cobra.Command, args []string) error

// Wrap ensures panic recovery, telemetry, and logging around fn.
func Wrap(fn RunFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		rc := pw_io.NewContext(parentContext(cmd), cmd.Name())
		return run(rc, fn, cmd, args)
	}
}

func run(rc *pw_io.RuntimeContext, fn RunFunc, cmd *cobra.Command, args []string) (err error) {
	defer rc.End(&err)

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = pw_err.NewInternalError("command panicked", cerr.AssertionFailedf("panic: %v", r))
			rc.Log.Error("Panic recovered", zap.Any("panic", r))
		}
	}()

	rc.Log.Debug("Command started",
		zap.String("path", cmd.CommandPath()),
		zap.Int("args", len(args)))

	err = fn(rc, cmd, args)
	if err != nil && !pw_err.IsExpectedUserError(err) {
		err = cerr.WithStack(err)
	}
	return err
}

func parentContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
