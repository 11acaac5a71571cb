// cmd/pools/pools.go
package pools

import (
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/output"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_cli"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_io"
	"github.com/spf13/cobra"
)

// NewCmd builds the pools command.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List the character pools passwords are drawn from",
		Long: `List the fixed character pools in the order they are joined into the
alphabet. The base pool is always used; the others are switched on with
--numbers, --extended and --symbols.`,
		Args: cobra.NoArgs,
		RunE: pw_cli.Wrap(func(rc *pw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("format")
			format, err := output.ParseFormat(raw)
			if err != nil {
				return pw_err.NewValidationError("invalid --format", err)
			}
			return output.WritePools(cmd.OutOrStdout(), format, output.PoolTable())
		}),
	}
	cmd.Flags().StringP("format", "f", string(output.FormatText), "Output format: text, json or yaml")
	return cmd
}
