// Package vault stores generated passwords in a HashiCorp Vault KV v2 mount.
//
// Path format: "apps/web/db" (no mount prefix). The KVv2 API prepends
// "<mount>/data/" itself.
package vault

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	cerr "github.com/cockroachdb/errors"
	vaultapi "github.com/hashicorp/vault/api"
)

var (
	// ErrInvalidPath indicates the secret path format is invalid.
	ErrInvalidPath = cerr.New("invalid secret path")

	// ErrPermissionDenied indicates the current credentials lack access.
	ErrPermissionDenied = cerr.New("permission denied")

	// ErrBackendUnavailable indicates Vault could not be reached or failed.
	ErrBackendUnavailable = cerr.New("vault unavailable")
)

// KVWriter is the part of *vaultapi.KVv2 the store needs.
type KVWriter interface {
	Put(ctx context.Context, secretPath string, data map[string]interface{}, opts ...vaultapi.KVOption) (*vaultapi.KVSecret, error)
}

// Store writes password records to one KV v2 mount.
type Store struct {
	kv    KVWriter
	mount string
}

// NewStore wraps kv, usually client.KVv2(mount).
func NewStore(kv KVWriter, mount string) *Store {
	return &Store{kv: kv, mount: mount}
}

// Mount returns the KV v2 mount the store writes to.
func (s *Store) Mount() string { return s.mount }

// Put stores data at path, creating a new version if one exists.
func (s *Store) Put(ctx context.Context, path string, data map[string]interface{}) (int, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return 0, cerr.Wrap(ErrInvalidPath, "path cannot be empty")
	}
	if strings.HasPrefix(path, s.mount+"/") {
		return 0, cerr.Wrapf(ErrInvalidPath, "path should not include the %q mount prefix (got: %s)", s.mount, path)
	}

	secret, err := s.kv.Put(ctx, path, data)
	if err != nil {
		// the mark keeps the Vault response reachable through errors.As
		if isPermissionError(err) {
			return 0, cerr.Mark(cerr.Wrapf(err, "failed to store secret at %s", path), ErrPermissionDenied)
		}
		return 0, cerr.Mark(cerr.Wrapf(err, "failed to store secret in Vault at %s", path), ErrBackendUnavailable)
	}

	version := 0
	if secret != nil && secret.VersionMetadata != nil {
		version = secret.VersionMetadata.Version
	}
	return version, nil
}

// PasswordRecord is the KV payload for one generated password.
func PasswordRecord(password string, generatedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"password":     password,
		"length":       utf8.RuneCountInString(password),
		"generated_at": generatedAt.UTC().Format(time.RFC3339),
	}
}

// StorePassword writes a generated password and returns the new version.
func (s *Store) StorePassword(ctx context.Context, path, password string, generatedAt time.Time) (int, error) {
	return s.Put(ctx, path, PasswordRecord(password, generatedAt))
}

func isPermissionError(err error) bool {
	var respErr *vaultapi.ResponseError
	if cerr.As(err, &respErr) {
		return respErr.StatusCode == 403
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "forbidden")
}
