// Package config loads pwgen defaults from built-in values, an optional
// YAML file, a .env file, PWGEN_* environment variables and command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	cerr "github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "PWGEN"
	configName     = "config"
	defaultEnvFile = ".env"
)

// Keys understood by the loader.
const (
	KeyLength       = "length"
	KeyNumbers      = "numbers"
	KeyExtended     = "extended"
	KeySymbols      = "symbols"
	KeyCount        = "count"
	KeyFormat       = "format"
	KeyHash         = "hash"
	KeyVaultAddress = "vault.address"
	KeyVaultMount   = "vault.mount"
	KeyVaultAuth    = "vault.auth"
	KeyVaultRoleID  = "vault.role_id"
	KeyVaultUser    = "vault.username"
	KeyVaultTimeout = "vault.timeout"
)

// Defaults are the generation defaults and sink settings a command starts from.
type Defaults struct {
	Length   int         `mapstructure:"length" yaml:"length"`
	Numbers  bool        `mapstructure:"numbers" yaml:"numbers"`
	Extended bool        `mapstructure:"extended" yaml:"extended"`
	Symbols  bool        `mapstructure:"symbols" yaml:"symbols"`
	Count    int         `mapstructure:"count" yaml:"count"`
	Format   string      `mapstructure:"format" yaml:"format"`
	Hash     string      `mapstructure:"hash" yaml:"hash"`
	Vault    VaultConfig `mapstructure:"vault" yaml:"vault"`
}

// VaultConfig selects the Vault server, KV v2 mount and login method.
type VaultConfig struct {
	Address  string        `mapstructure:"address" yaml:"address"`
	Mount    string        `mapstructure:"mount" yaml:"mount"`
	Auth     string        `mapstructure:"auth" yaml:"auth"`
	RoleID   string        `mapstructure:"role_id" yaml:"role_id"`
	Username string        `mapstructure:"username" yaml:"username"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Request converts the defaults into a generation request.
func (d Defaults) Request() password.Request {
	return password.Request{
		Length:                 d.Length,
		IncludeNumbers:         d.Numbers,
		IncludeExtendedLetters: d.Extended,
		IncludeSymbols:         d.Symbols,
	}
}

// Loader wraps a viper instance configured for pwgen.
type Loader struct {
	v *viper.Viper

	mu       sync.Mutex
	watching bool
}

// New returns a loader with built-in defaults and PWGEN_* env binding.
func New() *Loader {
	v := viper.New()

	req := password.DefaultRequest()
	v.SetDefault(KeyLength, req.Length)
	v.SetDefault(KeyNumbers, req.IncludeNumbers)
	v.SetDefault(KeyExtended, req.IncludeExtendedLetters)
	v.SetDefault(KeySymbols, req.IncludeSymbols)
	v.SetDefault(KeyCount, 1)
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyHash, "none")
	v.SetDefault(KeyVaultAddress, "")
	v.SetDefault(KeyVaultMount, "secret")
	v.SetDefault(KeyVaultAuth, "token")
	v.SetDefault(KeyVaultRoleID, "")
	v.SetDefault(KeyVaultUser, "")
	v.SetDefault(KeyVaultTimeout, 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Dir is the directory searched for config.yaml when no file is given.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pwgen")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pwgen")
}

// LoadEnvFile loads KEY=value pairs from path (default .env) into the
// process environment without overriding variables already set. A missing
// file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_ENV_FILE")
	}
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return cerr.Wrapf(err, "failed to load env file %s", path)
	}
	return nil
}

// ReadFile reads configFile, or config.yaml from Dir() when configFile is
// empty. Only an explicitly named file is required to exist.
func (l *Loader) ReadFile(configFile string) error {
	if configFile != "" {
		l.v.SetConfigFile(configFile)
	} else {
		if dir := Dir(); dir != "" {
			l.v.AddConfigPath(dir)
		}
		l.v.SetConfigName(configName)
		l.v.SetConfigType("yaml")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return cerr.WithHint(cerr.Wrap(err, "failed to read config file"),
			"check the YAML syntax of the file passed with --config")
	}
	return nil
}

// ConfigFileUsed is the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// BindFlags binds flags to config keys. Keys map flag name -> config key;
// flags not in keys are bound under their own name. Only flags the user
// actually set override the other sources.
func (l *Loader) BindFlags(fs *pflag.FlagSet, keys map[string]string) error {
	var result error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			result = multierror.Append(result, err)
		}
	})
	return result
}

// Defaults decodes the merged configuration.
func (l *Loader) Defaults() (Defaults, error) {
	var d Defaults
	if err := l.v.Unmarshal(&d); err != nil {
		return Defaults{}, cerr.Wrap(err, "failed to decode configuration")
	}
	return d, nil
}

// Watch re-reads the config file on every change and passes the new
// defaults to onChange, from the watcher goroutine. It is a no-op when no
// config file was read.
func (l *Loader) Watch(onChange func(Defaults, error)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watching || l.v.ConfigFileUsed() == "" {
		return
	}
	l.watching = true

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(l.Defaults())
	})
	l.v.WatchConfig()
}

// Load is the usual startup sequence: .env, config file, decode.
func Load(configFile string) (*Loader, Defaults, error) {
	if err := LoadEnvFile(""); err != nil {
		return nil, Defaults{}, err
	}
	l := New()
	if err := l.ReadFile(configFile); err != nil {
		return nil, Defaults{}, err
	}
	d, err := l.Defaults()
	if err != nil {
		return nil, Defaults{}, err
	}
	return l, d, nil
}
