// Package popup is the interactive password popup: a password field, a
// length input, a generate action and a hideable settings panel with the
// optional pool toggles.
package popup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/crypto"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/telemetry"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/verify"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type focus int

const (
	focusLength focus = iota
	focusToggles
)

type toggle int

const (
	toggleNumbers toggle = iota
	toggleExtended
	toggleSymbols
	toggleCount
)

func (t toggle) label() string {
	switch t {
	case toggleNumbers:
		return "Numbers (0-9)"
	case toggleExtended:
		return "Extended letters (ěščřžýáíéů)"
	default:
		return "Symbols (+@#$%^&*…)"
	}
}

// DefaultsChangedMsg carries reloaded defaults from the config watcher.
type DefaultsChangedMsg struct {
	Request password.Request
	Err     error
}

// Model is the bubbletea model of the popup.
type Model struct {
	ctx    context.Context
	record *password.Record
	gen    *password.Generator

	length textinput.Model
	keys   keyMap
	help   help.Model
	styles Styles

	password        string
	err             error
	notice          string
	settingsVisible bool
	focus           focus
	cursor          toggle
	generated       int
	quitting        bool
}

// New builds the popup around record and generates the first password from
// its current request. A nil gen draws from crypto/rand.
func New(ctx context.Context, record *password.Record, gen *password.Generator) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if record == nil {
		record = password.NewRecord()
	}
	if gen == nil {
		gen = &password.Generator{}
	}

	ti := textinput.New()
	ti.Prompt = "Length: "
	ti.Placeholder = strconv.Itoa(password.DefaultLength)
	ti.CharLimit = len(strconv.Itoa(verify.MaxLength))
	ti.Width = ti.CharLimit + 1
	ti.SetValue(strconv.Itoa(record.Current().Length))
	ti.Focus()

	m := Model{
		ctx:    ctx,
		record: record,
		gen:    gen,
		length: ti,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: NewStyles(),
	}
	m.generate()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DefaultsChangedMsg:
		if msg.Err != nil {
			m.notice = "config reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.record.Update(msg.Request)
		m.length.SetValue(strconv.Itoa(msg.Request.Length))
		m.notice = "defaults reloaded"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.length, cmd = m.length.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Generate):
		m.notice = ""
		m.generate()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		m.copyPassword()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.settingsVisible = !m.settingsVisible
		if !m.settingsVisible && m.focus == focusToggles {
			return m, m.focusLength()
		}
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if !m.settingsVisible {
			return m, nil
		}
		if m.focus == focusLength {
			m.focus = focusToggles
			m.length.Blur()
			return m, nil
		}
		return m, m.focusLength()
	}

	if m.focus == focusToggles {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = (m.cursor + toggleCount - 1) % toggleCount
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % toggleCount
		case key.Matches(msg, m.keys.Toggle):
			m.flip(m.cursor)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.length, cmd = m.length.Update(msg)
	return m, cmd
}

func (m *Model) focusLength() tea.Cmd {
	m.focus = focusLength
	return m.length.Focus()
}

func (m *Model) flip(t toggle) {
	req := m.record.Current()
	switch t {
	case toggleNumbers:
		req.IncludeNumbers = !req.IncludeNumbers
	case toggleExtended:
		req.IncludeExtendedLetters = !req.IncludeExtendedLetters
	case toggleSymbols:
		req.IncludeSymbols = !req.IncludeSymbols
	}
	m.record.Update(req)
}

// generate reads the length input, applies it to the record and replaces
// the password. On failure the previous password stays displayed.
func (m *Model) generate() {
	n, err := password.ParseLength(m.length.Value())
	if err == nil && n > verify.MaxLength {
		err = fmt.Errorf("%w: %d is longer than %d", password.ErrInvalidLength, n, verify.MaxLength)
	}
	if err != nil {
		m.err = err
		return
	}

	req := m.record.Current()
	req.Length = n
	m.record.Update(req)

	pw, err := m.gen.Generate(req)
	if err != nil {
		m.err = err
		logger.L().Error("Password generation failed", zap.Error(err))
		return
	}

	m.password = pw
	m.err = nil
	m.generated++
	telemetry.RecordGenerated(m.ctx, 1, attribute.String("surface", "popup"))
	logger.L().Debug("Generated password",
		zap.Int("length", n),
		zap.String("password", crypto.Redact(pw)))
}

func (m *Model) copyPassword() {
	if m.password == "" {
		m.notice = "nothing to copy"
		return
	}
	if err := writeClipboard(m.password); err != nil {
		m.notice = "copy failed: " + err.Error()
		logger.L().Warn("Clipboard write failed", zap.Error(err))
		return
	}
	m.notice = "copied to clipboard"
	logger.L().Debug("Copied password", zap.String("password", crypto.Redact(m.password)))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("pwgen"))
	b.WriteString("\n")

	shown := m.password
	if shown == "" {
		shown = s.Muted.Render("(empty)")
	}
	b.WriteString(s.Password.Render(shown))
	b.WriteString("\n")
	b.WriteString(m.length.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(s.Error.Render(m.err.Error()))
		b.WriteString("\n")
	} else if m.notice != "" {
		b.WriteString(s.Muted.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Buttons(m.settingsVisible))

	if m.settingsVisible {
		req := m.record.Current()
		states := [toggleCount]bool{req.IncludeNumbers, req.IncludeExtendedLetters, req.IncludeSymbols}
		lines := make([]string, 0, toggleCount)
		for t := toggle(0); t < toggleCount; t++ {
			lines = append(lines, s.Toggle(t.label(), states[t], m.focus == focusToggles && t == m.cursor))
		}
		panel := s.Panel
		if m.focus == focusToggles {
			panel = s.Focused
		}
		b.WriteString("\n")
		b.WriteString(panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	b.WriteString("\n")
	b.WriteString(s.Footer.Render(m.help.View(m.keys)))
	return b.String()
}

// Password returns the password currently displayed.
func (m Model) Password() string { return m.password }

// Err returns the error shown under the length input, if any.
func (m Model) Err() error { return m.err }

// SettingsVisible reports whether the settings panel is shown.
func (m Model) SettingsVisible() bool { return m.settingsVisible }

// Request returns the record's current request.
func (m Model) Request() password.Request { return m.record.Current() }

// Generated counts successful generations, including the initial one.
func (m Model) Generated() int { return m.generated }
