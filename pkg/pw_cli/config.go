// pkg/pw_cli/config.go

package pw_cli

import (
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/spf13/cobra"
)

// ConfigFlag is the persistent root flag naming the config file.
const ConfigFlag = "config"

// LoadConfig loads defaults for cmd: .env, the --config file (or the XDG
// default), PWGEN_* variables, then every flag in flagKeys the user set.
func LoadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Loader, config.Defaults, error) {
	var configFile string
	if f := cmd.Flag(ConfigFlag); f != nil {
		configFile = f.Value.String()
	}

	if err := config.LoadEnvFile(""); err != nil {
		return nil, config.Defaults{}, pw_err.NewValidationError("could not load .env file", err,
			"fix the syntax of the .env file or point PWGEN_ENV_FILE elsewhere")
	}

	l := config.New()
	if err := l.ReadFile(configFile); err != nil {
		return nil, config.Defaults{}, pw_err.NewValidationError("could not read configuration", err)
	}
	if err := l.BindFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, config.Defaults{}, pw_err.NewInternalError("could not bind flags", err)
	}

	d, err := l.Defaults()
	if err != nil {
		return nil, config.Defaults{}, pw_err.NewValidationError("invalid configuration values", err,
			"booleans must be true/false and numbers whole numbers")
	}
	return l, d, nil
}
