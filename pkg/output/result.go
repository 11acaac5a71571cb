// pkg/output/result.go

package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
)

// Format selects how results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: text, json, yaml)", s)
	}
}

// Entry is one generated password, with its hash when one was requested.
type Entry struct {
	Password string `json:"password" yaml:"password"`
	Hash     string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// Result is what one `pwgen generate` run produced.
type Result struct {
	Request     password.Request `json:"request" yaml:"request"`
	Passwords   []Entry          `json:"passwords" yaml:"passwords"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	VaultPath   string           `json:"vault_path,omitempty" yaml:"vault_path,omitempty"`
}

// WriteResult renders r to w. Text is one password per line, followed by a
// tab and the hash when present.
func WriteResult(w io.Writer, format Format, r Result) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, r)
	case FormatYAML:
		return YAMLTo(w, r)
	default:
		for _, e := range r.Passwords {
			line := e.Password
			if e.Hash != "" {
				line += "\t" + e.Hash
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

// PoolInfo describes one character pool for listing.
type PoolInfo struct {
	Name       string `json:"name" yaml:"name"`
	Size       int    `json:"size" yaml:"size"`
	Optional   bool   `json:"optional" yaml:"optional"`
	Characters string `json:"characters" yaml:"characters"`
}

// PoolTable describes the fixed pool table in selection order.
func PoolTable() []PoolInfo {
	pools := password.Pools()
	infos := make([]PoolInfo, 0, len(pools))
	for _, p := range pools {
		infos = append(infos, PoolInfo{
			Name:       string(p.Name()),
			Size:       p.Len(),
			Optional:   p.Name() != password.PoolBase,
			Characters: p.String(),
		})
	}
	return infos
}

// WritePools renders the pool listing to w.
func WritePools(w io.Writer, format Format, pools []PoolInfo) error {
	switch format {
	case FormatJSON:
		return JSONTo(w, pools)
	case FormatYAML:
		return YAMLTo(w, pools)
	default:
		table := NewTableTo(w).WithHeaders("POOL", "SIZE", "OPTIONAL", "CHARACTERS")
		for _, p := range pools {
			table.AddRow(p.Name, strconv.Itoa(p.Size), strconv.FormatBool(p.Optional), p.Characters)
		}
		return table.Render()
	}
}
