// pkg/popup/run.go

package popup

import (
	"context"
	"os"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	tea "github.com/charmbracelet/bubbletea"
	cerr "github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// RequireTTY fails unless both in and out are terminals.
func RequireTTY(in, out *os.File) error {
	if in != nil && out != nil && term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return nil
	}
	return pw_err.NewValidationError("the popup needs an interactive terminal", pw_err.ErrNotTTY,
		"run `pwgen generate` for non-interactive output")
}

// Notifier is handed to the caller's config watcher. Each call delivers a
// DefaultsChangedMsg into the running program.
type Notifier func(DefaultsChangedMsg)

// Run shows m on the terminal until the user quits and returns the final
// model. If subscribe is set it is called once with a Notifier before the
// program starts.
func Run(ctx context.Context, m Model, subscribe func(Notifier)) (Model, error) {
	if err := RequireTTY(os.Stdin, os.Stdout); err != nil {
		return m, err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if subscribe != nil {
		subscribe(func(msg DefaultsChangedMsg) { p.Send(msg) })
	}

	final, err := p.Run()
	if err != nil {
		if cerr.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return m, pw_err.NewUserCancelledError("popup")
		}
		return m, cerr.Wrap(err, "run popup")
	}

	out, ok := final.(Model)
	if !ok {
		return m, cerr.AssertionFailedf("popup returned %T", final)
	}
	return out, nil
}
