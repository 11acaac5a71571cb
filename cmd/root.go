/* cmd/root.go */

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Subcommands
	"github.com/CodeMonkeyCybersecurity/pwgen/cmd/generate"
	"github.com/CodeMonkeyCybersecurity/pwgen/cmd/pools"
	"github.com/CodeMonkeyCybersecurity/pwgen/cmd/popup"

	// Internal packages
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_cli"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_io"
)

// NewRootCmd builds the pwgen command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pwgen",
		Short: "Random password generator",
		Long: `pwgen generates random passwords from a fixed table of character pools:
base letters, plus optional numbers, extended letters and symbols.

Use "pwgen generate" for scripted output or "pwgen popup" for the
interactive generator.`,
		Version:       pw_io.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flag("log-level"); f != nil && f.Changed {
				if err := os.Setenv("LOG_LEVEL", f.Value.String()); err != nil {
					return err
				}
				logger.InitializeWithFallback()
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				pw_err.SetDebugMode(true)
			}
			return nil
		},
		RunE: pw_cli.Wrap(func(rc *pw_io.RuntimeContext, cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "No subcommand provided. Try `pwgen help`.")
			return cmd.Help()
		}),
	}

	root.PersistentFlags().String(pw_cli.ConfigFlag, "", "Config file (default $XDG_CONFIG_HOME/pwgen/config.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")
	root.PersistentFlags().Bool("debug", false, "Print full error details")

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return pw_err.NewValidationError("invalid flags", err, "see `"+c.CommandPath()+" --help`")
	})
	root.SetHelpCommand(newHelpCmd(root))

	for _, sub := range []*cobra.Command{
		generate.NewCmd(),
		popup.NewCmd(),
		pools.NewCmd(),
	} {
		root.AddCommand(sub)
	}
	return root
}

// newHelpCmd wraps help so that it can be invoked like a normal command.
func newHelpCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long:  "Displays help for pwgen or a specific subcommand.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return root.Help()
			}
			c, _, err := root.Find(args)
			if err != nil || c == nil || c == root {
				return pw_err.NewValidationError("command not found: "+strings.Join(args, " "), err)
			}
			return c.Help()
		},
	}
}

// Run executes the command tree with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	log := logger.GetLogger()
	if pw_err.IsExpectedUserError(err) {
		log.Warn("CLI completed with user error", zap.Error(err))
	} else {
		log.Error("CLI execution error", zap.Error(err))
	}
	pw_err.PrintError(stderr, nil, "pwgen", err)
	return pw_err.GetExitCode(err)
}

// Execute runs pwgen with the process arguments and returns the exit code.
func Execute() int {
	defer func() {
		if err := logger.Sync(); err != nil && !isSyncNoise(err) {
			fmt.Fprintf(os.Stderr, "pwgen: failed to flush logs: %v\n", err)
		}
	}()

	logger.L().Debug("pwgen starting", zap.String("version", pw_io.Version))
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// syncing a terminal stderr fails with EINVAL or ENOTTY on Linux
func isSyncNoise(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") || strings.Contains(msg, "inappropriate ioctl")
}
