package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("PWGEN_ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefaults_BuiltIn(t *testing.T) {
	isolate(t)

	_, d, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, password.DefaultRequest(), d.Request())
	assert.Equal(t, 1, d.Count)
	assert.Equal(t, "text", d.Format)
	assert.Equal(t, "none", d.Hash)
	assert.Equal(t, "secret", d.Vault.Mount)
	assert.Equal(t, "token", d.Vault.Auth)
	assert.Equal(t, 10*time.Second, d.Vault.Timeout)
}

func TestLoad_ConfigFileFromXDG(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "pwgen", "config.yaml"), `
length: 24
extended: false
format: json
vault:
  mount: kv
  timeout: 3s
`)

	l, d, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pwgen", "config.yaml"), l.ConfigFileUsed())
	assert.Equal(t, 24, d.Length)
	assert.False(t, d.Extended)
	assert.True(t, d.Numbers)
	assert.Equal(t, "json", d.Format)
	assert.Equal(t, "kv", d.Vault.Mount)
	assert.Equal(t, 3*time.Second, d.Vault.Timeout)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)
	_, _, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "length: 24\nsymbols: true\n")
	t.Setenv("PWGEN_LENGTH", "40")
	t.Setenv("PWGEN_SYMBOLS", "false")
	t.Setenv("PWGEN_VAULT_AUTH", "approle")

	_, d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, d.Length)
	assert.False(t, d.Symbols)
	assert.Equal(t, "approle", d.Vault.Auth)
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	envPath := filepath.Join(dir, "test.env")
	writeFile(t, envPath, "PWGEN_COUNT=5\n")
	t.Setenv("PWGEN_COUNT", "")
	require.NoError(t, os.Unsetenv("PWGEN_COUNT"))

	require.NoError(t, LoadEnvFile(envPath))
	t.Cleanup(func() { _ = os.Unsetenv("PWGEN_COUNT") })

	d, err := New().Defaults()
	require.NoError(t, err)
	assert.Equal(t, 5, d.Count)

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "absent.env")))
}

func TestBindFlags_OnlyChangedFlagsWin(t *testing.T) {
	isolate(t)
	t.Setenv("PWGEN_LENGTH", "30")

	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.Int("length", 0, "")
	fs.Bool("numbers", true, "")
	fs.Bool("symbols", true, "")

	l := New()
	require.NoError(t, l.BindFlags(fs, map[string]string{
		"length":  KeyLength,
		"numbers": KeyNumbers,
		"symbols": KeySymbols,
	}))
	require.NoError(t, fs.Parse([]string{"--symbols=false"}))

	d, err := l.Defaults()
	require.NoError(t, err)
	assert.Equal(t, 30, d.Length, "unset flag must not override env")
	assert.True(t, d.Numbers)
	assert.False(t, d.Symbols)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "watch.yaml")
	writeFile(t, path, "length: 10\n")

	l, d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 10, d.Length)

	var (
		mu   sync.Mutex
		seen []int
	)
	l.Watch(func(d Defaults, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		seen = append(seen, d.Length)
		mu.Unlock()
	})

	writeFile(t, path, "length: 12\n")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, n := range seen {
			if n == 12 {
				return true
			}
		}
		return false
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatch_NoFileIsNoop(t *testing.T) {
	isolate(t)
	l := New()
	assert.NotPanics(t, func() {
		l.Watch(func(Defaults, error) { t.Error("unexpected callback") })
	})
}
