package vault

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/config"
	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVault answers the handful of endpoints the sink touches.
type fakeVault struct {
	t        *testing.T
	written  map[string]interface{}
	token    string
	password string
}

func (f *fakeVault) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPut && r.URL.Path == "/v1/secret/data/apps/db":
		f.token = r.Header.Get("X-Vault-Token")
		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.written = body.Data
		_, _ = w.Write([]byte(`{"data":{"version":3,"created_time":"2026-10-18T09:30:00Z","destroyed":false}}`))

	case (r.Method == http.MethodPut || r.Method == http.MethodPost) && r.URL.Path == "/v1/auth/userpass/login/alice":
		var body map[string]interface{}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.password, _ = body["password"].(string)
		_, _ = w.Write([]byte(`{"auth":{"client_token":"s.userpass","accessor":"acc-1","policies":["default"]}}`))

	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[]}`))
	}
}

func clearVaultEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"VAULT_ADDR", EnvToken, EnvSecretID, EnvPassword, "VAULT_NAMESPACE"} {
		t.Setenv(k, "")
	}
}

func TestOpen_TokenAuthWritesRecord(t *testing.T) {
	clearVaultEnv(t)
	t.Setenv(EnvToken, "s.root")
	fv := &fakeVault{t: t}
	srv := httptest.NewServer(fv)
	defer srv.Close()

	store, err := Open(context.Background(), config.VaultConfig{Address: srv.URL, Mount: "secret", Auth: "token", Timeout: 5 * time.Second})
	require.NoError(t, err)

	version, err := store.StorePassword(context.Background(), "apps/db", "AB12", time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, "s.root", fv.token)
	assert.Equal(t, "AB12", fv.written["password"])
	assert.EqualValues(t, 4, fv.written["length"])
	assert.Equal(t, "2026-10-18T09:30:00Z", fv.written["generated_at"])
}

func TestOpen_UserpassLogin(t *testing.T) {
	clearVaultEnv(t)
	t.Setenv(EnvPassword, "hunter2")
	fv := &fakeVault{t: t}
	srv := httptest.NewServer(fv)
	defer srv.Close()

	store, err := Open(context.Background(), config.VaultConfig{Address: srv.URL, Auth: "userpass", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "secret", store.Mount())
	assert.Equal(t, "hunter2", fv.password)

	_, err = store.StorePassword(context.Background(), "apps/db", "pw", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "s.userpass", fv.token)
}

func TestLogin_MissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.VaultConfig
	}{
		{name: "token without VAULT_TOKEN", cfg: config.VaultConfig{Auth: "token"}},
		{name: "approle without role id", cfg: config.VaultConfig{Auth: "approle"}},
		{name: "approle without secret id", cfg: config.VaultConfig{Auth: "approle", RoleID: "role"}},
		{name: "userpass without username", cfg: config.VaultConfig{Auth: "userpass"}},
		{name: "userpass without password", cfg: config.VaultConfig{Auth: "userpass", Username: "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearVaultEnv(t)
			tt.cfg.Address = "http://127.0.0.1:1"
			client, err := NewClient(tt.cfg)
			require.NoError(t, err)

			err = Login(context.Background(), client, tt.cfg)
			require.Error(t, err)
			assert.NotEmpty(t, cerr.GetAllHints(err))
		})
	}
}

func TestLogin_UnsupportedMethod(t *testing.T) {
	clearVaultEnv(t)
	client, err := NewClient(config.VaultConfig{Address: "http://127.0.0.1:1"})
	require.NoError(t, err)

	err = Login(context.Background(), client, config.VaultConfig{Auth: "kerberos"})
	assert.True(t, cerr.Is(err, ErrUnsupportedAuth))
}
