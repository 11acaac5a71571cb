// pkg/vault/client.go

package vault

import (
	"context"
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/config"
	cerr "github.com/cockroachdb/errors"
	vaultapi "github.com/hashicorp/vault/api"
	"github.com/hashicorp/vault/api/auth/approle"
	"github.com/hashicorp/vault/api/auth/userpass"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Login methods accepted in vault.auth.
const (
	AuthToken    = "token"
	AuthAppRole  = "approle"
	AuthUserpass = "userpass"
)

// Environment variables holding login secrets. They are never read from the
// config file.
const (
	EnvToken    = "VAULT_TOKEN"
	EnvSecretID = "VAULT_SECRET_ID"
	EnvPassword = "VAULT_PASSWORD"
)

// ErrUnsupportedAuth is returned for an unknown vault.auth value.
var ErrUnsupportedAuth = cerr.New("unsupported vault auth method")

// NewClient builds an API client from cfg. VAULT_ADDR and the other
// standard VAULT_* variables apply unless cfg overrides them.
func NewClient(cfg config.VaultConfig) (*vaultapi.Client, error) {
	vcfg := vaultapi.DefaultConfig()
	if vcfg.Error != nil {
		return nil, cerr.Wrap(vcfg.Error, "read vault environment")
	}
	if cfg.Address != "" {
		vcfg.Address = cfg.Address
	}
	if cfg.Timeout > 0 {
		vcfg.Timeout = cfg.Timeout
	}

	client, err := vaultapi.NewClient(vcfg)
	if err != nil {
		return nil, cerr.Wrap(err, "create vault client")
	}
	return client, nil
}

// Login authenticates client with the method named in cfg.Auth.
func Login(ctx context.Context, client *vaultapi.Client, cfg config.VaultConfig) error {
	log := otelzap.Ctx(ctx)

	method := strings.ToLower(strings.TrimSpace(cfg.Auth))
	if method == "" {
		method = AuthToken
	}

	var auth vaultapi.AuthMethod
	switch method {
	case AuthToken:
		if client.Token() == "" {
			return cerr.WithHint(cerr.New("no vault token available"),
				"export "+EnvToken+" or set vault.auth to approle or userpass")
		}
		log.Debug("Using vault token from environment")
		return nil

	case AuthAppRole:
		if cfg.RoleID == "" {
			return cerr.WithHint(cerr.New("vault.role_id is required for approle login"),
				"set vault.role_id in the config file or PWGEN_VAULT_ROLE_ID")
		}
		if os.Getenv(EnvSecretID) == "" {
			return cerr.WithHint(cerr.Newf("%s is not set", EnvSecretID),
				"export the approle secret id as "+EnvSecretID)
		}
		a, err := approle.NewAppRoleAuth(cfg.RoleID, &approle.SecretID{FromEnv: EnvSecretID})
		if err != nil {
			return cerr.Wrap(err, "create approle auth")
		}
		auth = a

	case AuthUserpass:
		if cfg.Username == "" {
			return cerr.WithHint(cerr.New("vault.username is required for userpass login"),
				"set vault.username in the config file or PWGEN_VAULT_USERNAME")
		}
		if os.Getenv(EnvPassword) == "" {
			return cerr.WithHint(cerr.Newf("%s is not set", EnvPassword),
				"export the vault user's password as "+EnvPassword)
		}
		a, err := userpass.NewUserpassAuth(cfg.Username, &userpass.Password{FromEnv: EnvPassword})
		if err != nil {
			return cerr.Wrap(err, "create userpass auth")
		}
		auth = a

	default:
		return cerr.WithHint(cerr.Wrapf(ErrUnsupportedAuth, "%q", cfg.Auth),
			"supported: token, approle, userpass")
	}

	secret, err := client.Auth().Login(ctx, auth)
	if err != nil {
		return cerr.Wrapf(err, "%s login failed", method)
	}
	log.Info("Authenticated with Vault",
		zap.String("method", method),
		zap.String("token_accessor", secret.Auth.Accessor))
	return nil
}

// Open creates a client, logs in and returns a store on cfg.Mount.
func Open(ctx context.Context, cfg config.VaultConfig) (*Store, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := Login(ctx, client, cfg); err != nil {
		return nil, err
	}
	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	return NewStore(client.KVv2(mount), mount), nil
}
