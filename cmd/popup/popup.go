// cmd/popup/popup.go
//
// `pwgen popup` is the interactive generator: a password field, a length
// input and a hideable settings panel. It needs a terminal on stdin and
// stdout. Edits to the config file are picked up while it runs.
package popup

import (
	"fmt"
	"os"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	tui "github.com/CodeMonkeyCybersecurity/pwgen/pkg/popup"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_cli"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_io"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/verify"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// NewCmd builds the popup command.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "popup",
		Short: "Open the interactive password generator",
		Long: `Open the interactive generator. A password is generated on start.

Keys:
  enter      generate a new password with the entered length
  c          copy the password to the clipboard
  s          show or hide the settings panel
  tab        move between the length input and the settings
  ↑/↓ space  choose and flip a setting
  q, esc     quit`,
		Args: cobra.NoArgs,
		RunE: pw_cli.Wrap(runPopup),
	}
	cmd.Flags().Bool("print", true, "Print the last password to stdout on exit")
	return cmd
}

func runPopup(rc *pw_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	loader, d, err := pw_cli.LoadConfig(cmd, nil)
	if err != nil {
		return err
	}
	req := d.Request()
	if err := verify.Request(req); err != nil {
		return pw_err.NewValidationError("invalid configured length", err)
	}
	if err := tui.RequireTTY(os.Stdin, os.Stdout); err != nil {
		return err
	}

	record := password.NewRecord()
	record.Update(req)

	// the program owns the terminal from here on
	logger.FileOnly()
	log := otelzap.Ctx(rc.Ctx)
	log.Info("Starting popup", zap.String("config", loader.ConfigFileUsed()))

	final, err := tui.Run(rc.Ctx, tui.New(rc.Ctx, record, nil), func(notify tui.Notifier) {
		loader.Watch(func(d config.Defaults, err error) {
			req := d.Request()
			if err == nil {
				err = verify.Request(req)
			}
			notify(tui.DefaultsChangedMsg{Request: req, Err: err})
		})
	})
	if err != nil {
		return err
	}

	rc.Attributes["generated"] = fmt.Sprint(final.Generated())
	if ok, _ := cmd.Flags().GetBool("print"); ok {
		fmt.Fprintln(cmd.OutOrStdout(), final.Password())
	}
	return nil
}
