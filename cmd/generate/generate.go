// cmd/generate/generate.go
//
// `pwgen generate` prints one or more passwords drawn from the base pool
// plus the selected optional pools. Flags the user does not set fall back
// to PWGEN_* variables, then the config file, then built-in defaults.
//
// Usage Examples:
//
//	pwgen generate
//	pwgen generate --length 32 --extended=false
//	pwgen generate -c 5 -f json
//	pwgen generate --hash bcrypt --symbols=false
//	pwgen generate --vault-path apps/web/db
package generate

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/config"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/output"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_cli"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_io"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/vault"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/verify"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// flag name -> config key. --length is parsed by hand so that bad input
// reports ErrInvalidLength.
var flagKeys = map[string]string{
	"numbers":  config.KeyNumbers,
	"extended": config.KeyExtended,
	"symbols":  config.KeySymbols,
	"count":    config.KeyCount,
	"format":   config.KeyFormat,
	"hash":     config.KeyHash,
}

const defaultVaultTimeout = 10 * time.Second

type options struct {
	Length    int    `flag:"length" validate:"gte=0,lte=4096"`
	Count     int    `flag:"count" validate:"min=1,max=1000"`
	Format    string `flag:"format" validate:"oneof=text json yaml"`
	Hash      string `flag:"hash" validate:"oneof=none bcrypt"`
	VaultPath string `flag:"vault-path"`
}

// NewCmd builds the generate command.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate random passwords",
		Long: `Generate passwords from the base letters plus the optional numbers,
extended letters and symbols pools. Each character is drawn independently
and uniformly from the selected alphabet using the system CSPRNG.`,
		Example: `  pwgen generate
  pwgen generate --length 32 --extended=false
  pwgen generate -c 5 -f json
  pwgen generate --hash bcrypt --symbols=false
  pwgen generate --vault-path apps/web/db`,
		Args: cobra.NoArgs,
		RunE: pw_cli.Wrap(runGenerate),
	}

	def := password.DefaultRequest()
	cmd.Flags().StringP("length", "l", strconv.Itoa(def.Length), "Number of characters per password")
	cmd.Flags().BoolP("numbers", "n", def.IncludeNumbers, "Include digits 0-9")
	cmd.Flags().BoolP("extended", "e", def.IncludeExtendedLetters, "Include extended letters ěščřžýáíéů")
	cmd.Flags().BoolP("symbols", "s", def.IncludeSymbols, "Include symbols +@#$%^&*()-_=[{]};:|,<.>/?~")
	cmd.Flags().IntP("count", "c", 1, "Number of passwords to generate (1-1000)")
	cmd.Flags().StringP("format", "f", string(output.FormatText), "Output format: text, json or yaml")
	cmd.Flags().String("hash", string(crypto.AlgorithmNone), "Also print a hash of each password: none or bcrypt")
	cmd.Flags().String("vault-path", "", "Store the first password in Vault KV v2 at this path")
	return cmd
}

func runGenerate(rc *pw_io.RuntimeContext, cmd *cobra.Command, _ []string) error {
	log := otelzap.Ctx(rc.Ctx)

	_, d, err := pw_cli.LoadConfig(cmd, flagKeys)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("length") {
		raw, _ := cmd.Flags().GetString("length")
		n, err := password.ParseLength(raw)
		if err != nil {
			return pw_err.NewValidationError("invalid --length", err,
				"pass a whole number of characters, for example --length 18")
		}
		d.Length = n
	}
	vaultPath, _ := cmd.Flags().GetString("vault-path")

	opts := options{
		Length:    d.Length,
		Count:     d.Count,
		Format:    d.Format,
		Hash:      d.Hash,
		VaultPath: vaultPath,
	}
	if err := verify.Struct(opts); err != nil {
		return pw_err.NewValidationError("invalid generate options", err)
	}

	format, err := output.ParseFormat(opts.Format)
	if err != nil {
		return pw_err.NewValidationError("invalid --format", err)
	}
	alg, err := crypto.ParseAlgorithm(opts.Hash)
	if err != nil {
		return pw_err.NewValidationError("invalid --hash", err)
	}

	req := d.Request()
	if err := crypto.CheckFits(alg, password.MaxBytes(req)); err != nil {
		return pw_err.NewValidationError("cannot hash passwords of this length", err)
	}
	rc.Attributes["count"] = strconv.Itoa(opts.Count)
	rc.Attributes["format"] = string(format)
	log.Debug("Generating passwords",
		zap.Int("length", req.Length),
		zap.Bool("numbers", req.IncludeNumbers),
		zap.Bool("extended", req.IncludeExtendedLetters),
		zap.Bool("symbols", req.IncludeSymbols),
		zap.Int("count", opts.Count),
		zap.String("hash", string(alg)))

	res, err := generate(req, opts.Count, alg)
	if err != nil {
		return err
	}
	telemetry.RecordGenerated(rc.Ctx, len(res.Passwords), attribute.String("surface", "cli"))

	if opts.VaultPath != "" {
		stored, err := store(rc.Ctx, d.Vault, opts.VaultPath, res)
		if err != nil {
			return err
		}
		res.VaultPath = stored
	}

	return output.WriteResult(cmd.OutOrStdout(), format, res)
}

func generate(req password.Request, count int, alg crypto.Algorithm) (output.Result, error) {
	var gen password.Generator
	res := output.Result{
		Request:     req,
		Passwords:   make([]output.Entry, 0, count),
		GeneratedAt: time.Now().UTC(),
	}

	for i := 0; i < count; i++ {
		pw, err := gen.Generate(req)
		if err != nil {
			return output.Result{}, pw_err.WrapSystemError(err, "the system random source failed; try again")
		}

		hash, err := crypto.Hash(alg, pw)
		if err != nil {
			if cerr.Is(err, crypto.ErrPasswordTooLong) {
				return output.Result{}, pw_err.NewValidationError("cannot hash password", err)
			}
			return output.Result{}, pw_err.WrapSystemError(err, "hashing failed")
		}
		res.Passwords = append(res.Passwords, output.Entry{Password: pw, Hash: hash})
	}
	return res, nil
}

// store writes the first password of res to Vault and returns "<mount>/<path>".
// The write runs in its own span, bounded by vault.timeout.
func store(parent context.Context, cfg config.VaultConfig, path string, res output.Result) (full string, err error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultVaultTimeout
	}
	rc := pw_io.NewExtendedContext(parent, "vault-store", timeout)
	defer rc.End(&err)
	ctx := rc.Ctx
	log := otelzap.Ctx(ctx)

	s, err := vault.Open(ctx, cfg)
	if err != nil {
		if cerr.Is(err, vault.ErrUnsupportedAuth) {
			return "", pw_err.NewValidationError("invalid vault.auth", err)
		}
		return "", pw_err.NewNetworkError("could not log in to Vault", err,
			"check VAULT_ADDR (or vault.address) and the credentials for vault.auth")
	}

	path = strings.Trim(path, "/")
	first := res.Passwords[0]
	version, err := s.StorePassword(ctx, path, first.Password, res.GeneratedAt)
	switch {
	case cerr.Is(err, vault.ErrInvalidPath):
		return "", pw_err.NewValidationError("invalid --vault-path", err,
			"give the path inside the mount, for example apps/web/db")
	case cerr.Is(err, vault.ErrPermissionDenied):
		return "", pw_err.NewPermissionError(s.Mount()+"/"+path, "write", err,
			"ask for a policy granting create and update on "+s.Mount()+"/data/"+path)
	case err != nil:
		return "", pw_err.NewNetworkError("could not store password in Vault", err)
	}

	full = s.Mount() + "/" + path
	rc.Attributes["path"] = full
	log.Info("Stored password in Vault",
		zap.String("path", full),
		zap.Int("version", version),
		zap.String("password", crypto.Redact(first.Password)))
	return full, nil
}
