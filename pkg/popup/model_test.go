package popup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/pw_err"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(context.Background(), password.NewRecord(), &password.Generator{Source: zeroReader{}})
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func clearLength(t *testing.T, m Model) Model {
	t.Helper()
	for range m.length.Value() {
		m = press(t, m, keyBack)
	}
	require.Empty(t, m.length.Value())
	return m
}

func TestNew_GeneratesOnStart(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, strings.Repeat("A", password.DefaultLength), m.Password())
	assert.NoError(t, m.Err())
	assert.Equal(t, 1, m.Generated())
	assert.Equal(t, "18", m.length.Value())
	assert.False(t, m.SettingsVisible(), "settings panel starts hidden")
}

func TestNew_NilArguments(t *testing.T) {
	//nolint:staticcheck // nil context is accepted
	m := New(nil, nil, nil)
	assert.Len(t, []rune(m.Password()), password.DefaultLength)
	assert.Equal(t, password.DefaultRequest(), m.Request())
}

func TestSettingsToggle(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("s"))
	assert.True(t, m.SettingsVisible())
	assert.Contains(t, m.View(), "Extended letters")

	m = press(t, m, runes("s"))
	assert.False(t, m.SettingsVisible())
	assert.NotContains(t, m.View(), "Extended letters")
}

func TestTab_IgnoredWhilePanelHidden(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, keyTab)
	assert.Equal(t, focusLength, m.focus)
}

func TestFlagToggles(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("s"), keyTab)
	require.Equal(t, focusToggles, m.focus)

	m = press(t, m, keySpace)
	assert.False(t, m.Request().IncludeNumbers)
	assert.True(t, m.Request().IncludeExtendedLetters)

	m = press(t, m, keyDown, keySpace)
	assert.False(t, m.Request().IncludeExtendedLetters)

	// up from the first toggle wraps to symbols
	m = press(t, m, keyUp, keyUp, keySpace)
	assert.False(t, m.Request().IncludeSymbols)

	m = press(t, m, keySpace)
	assert.True(t, m.Request().IncludeSymbols)

	// letters never reach the length input while the toggles have focus
	assert.Equal(t, "18", m.length.Value())
}

func TestHidingPanelReturnsFocus(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("s"), keyTab, runes("s"))
	assert.Equal(t, focusLength, m.focus)

	m = clearLength(t, m)
	m = press(t, m, runes("7"))
	assert.Equal(t, "7", m.length.Value())
}

func TestRegenerate(t *testing.T) {
	m := newTestModel(t)
	m = clearLength(t, m)
	m = press(t, m, runes("5"), keyEnter)

	assert.Equal(t, "AAAAA", m.Password())
	assert.Equal(t, 5, m.Request().Length)
	assert.Equal(t, 2, m.Generated())
}

func TestRegenerate_ZeroLength(t *testing.T) {
	m := newTestModel(t)
	m = clearLength(t, m)
	m = press(t, m, runes("0"), keyEnter)

	assert.Equal(t, "", m.Password())
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "(empty)")
}

func TestRegenerate_InvalidLengthKeepsPassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "negative", input: "-3"},
		{name: "not a number", input: "1x"},
		{name: "empty", input: ""},
		{name: "too long", input: "9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			before := m.Password()

			m = clearLength(t, m)
			if tt.input != "" {
				m = press(t, m, runes(tt.input))
			}
			m = press(t, m, keyEnter)

			assert.ErrorIs(t, m.Err(), password.ErrInvalidLength)
			assert.Equal(t, before, m.Password())
			assert.Equal(t, password.DefaultLength, m.Request().Length)
			assert.Contains(t, m.View(), "invalid password length")
		})
	}
}

func TestRegenerate_ErrorClearsOnSuccess(t *testing.T) {
	m := newTestModel(t)
	m = clearLength(t, m)
	m = press(t, m, runes("-1"), keyEnter)
	require.Error(t, m.Err())

	m = clearLength(t, m)
	m = press(t, m, runes("3"), keyEnter)
	assert.NoError(t, m.Err())
	assert.Equal(t, "AAA", m.Password())
}

func TestRegenerate_SourceFailure(t *testing.T) {
	m := New(context.Background(), password.NewRecord(), &password.Generator{Source: failingReader{}})

	assert.Empty(t, m.Password())
	require.Error(t, m.Err())
	assert.Contains(t, m.Err().Error(), "entropy exhausted")
	assert.Equal(t, 0, m.Generated())
}

func TestDefaultsChanged(t *testing.T) {
	m := newTestModel(t)
	before := m.Password()

	req := password.Request{Length: 30, IncludeNumbers: true}
	m = press(t, m, DefaultsChangedMsg{Request: req})

	assert.Equal(t, req, m.Request())
	assert.Equal(t, "30", m.length.Value())
	assert.Equal(t, before, m.Password(), "a reload does not regenerate")
	assert.Contains(t, m.View(), "defaults reloaded")

	m = press(t, m, keyEnter)
	assert.Len(t, m.Password(), 30)
}

func TestDefaultsChanged_Error(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, DefaultsChangedMsg{Err: errors.New("yaml: line 2: bad indentation")})

	assert.Equal(t, password.DefaultRequest(), m.Request())
	assert.Contains(t, m.View(), "config reload failed")
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var copied string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		if err != nil {
			return err
		}
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &copied
}

func TestCopy(t *testing.T) {
	copied := stubClipboard(t, nil)
	m := newTestModel(t)

	m = press(t, m, runes("c"))
	assert.Equal(t, m.Password(), *copied)
	assert.Contains(t, m.View(), "copied to clipboard")
	assert.Equal(t, 1, m.Generated(), "copying does not regenerate")
}

func TestCopy_Failure(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard utility available"))
	m := newTestModel(t)

	m = press(t, m, runes("c"))
	assert.NoError(t, m.Err())
	assert.Contains(t, m.View(), "copy failed: no clipboard utility available")
}

func TestCopy_EmptyPassword(t *testing.T) {
	copied := stubClipboard(t, nil)
	m := clearLength(t, newTestModel(t))
	m = press(t, m, runes("0"), keyEnter, runes("c"))

	assert.Empty(t, m.Password())
	assert.Empty(t, *copied)
	assert.Contains(t, m.View(), "nothing to copy")
}

func TestQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(k.String(), func(t *testing.T) {
			m := newTestModel(t)
			next, cmd := m.Update(k)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())

			final := next.(Model)
			assert.Empty(t, final.View())
			assert.Equal(t, m.Password(), final.Password(), "final model keeps the last password")
		})
	}
}

func TestRequireTTY_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()

	err = RequireTTY(f, f)
	require.Error(t, err)
	assert.ErrorIs(t, err, pw_err.ErrNotTTY)
	assert.True(t, pw_err.IsExpectedUserError(err))
	assert.Equal(t, 2, pw_err.GetExitCode(err))

	assert.Error(t, RequireTTY(nil, nil))
}

func TestRun_NonTTYFails(t *testing.T) {
	if RequireTTY(os.Stdin, os.Stdout) == nil {
		t.Skip("running on a terminal")
	}
	m := newTestModel(t)
	_, err := Run(context.Background(), m, nil)
	assert.ErrorIs(t, err, pw_err.ErrNotTTY)
}
