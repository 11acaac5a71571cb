package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() Result {
	return Result{
		Request:     password.Request{Length: 6, IncludeSymbols: true},
		Passwords:   []Entry{{Password: "ab<c&d"}, {Password: "XYZabc", Hash: "$2a$10$hash"}},
		GeneratedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteResult_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, FormatText, sampleResult()))
	assert.Equal(t, "ab<c&d\nXYZabc\t$2a$10$hash\n", buf.String())
}

func TestWriteResult_TextEmptyPassword(t *testing.T) {
	var buf bytes.Buffer
	r := Result{Passwords: []Entry{{Password: ""}}}
	require.NoError(t, WriteResult(&buf, FormatText, r))
	assert.Equal(t, "\n", buf.String())
}

func TestWriteResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, FormatJSON, sampleResult()))
	assert.Contains(t, buf.String(), `"ab<c&d"`, "HTML characters must not be escaped")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	req := decoded["request"].(map[string]any)
	assert.EqualValues(t, 6, req["length"])
	assert.Equal(t, true, req["include_symbols"])
	assert.Len(t, decoded["passwords"], 2)
	assert.Equal(t, "2026-10-18T09:30:00Z", decoded["generated_at"])
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, FormatYAML, sampleResult()))

	var decoded struct {
		Request   password.Request `yaml:"request"`
		Passwords []Entry          `yaml:"passwords"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 6, decoded.Request.Length)
	assert.Equal(t, "$2a$10$hash", decoded.Passwords[1].Hash)
	assert.Empty(t, decoded.Passwords[0].Hash)
}

func TestPoolTable(t *testing.T) {
	pools := PoolTable()
	require.Len(t, pools, 4)
	assert.Equal(t, "base", pools[0].Name)
	assert.False(t, pools[0].Optional)
	assert.Equal(t, 51, pools[0].Size)
	assert.Equal(t, "extendedLetters", pools[2].Name)
	assert.True(t, pools[2].Optional)
	assert.Equal(t, 10, pools[2].Size)
}

func TestWritePools_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePools(&buf, FormatText, PoolTable()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "POOL"))
	assert.True(t, strings.HasPrefix(lines[2], "base"))
	assert.Contains(t, lines[4], "ěščřžýáíéů")
}

func TestWritePools_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePools(&buf, FormatJSON, PoolTable()))

	var decoded []PoolInfo
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, PoolTable(), decoded)
}
