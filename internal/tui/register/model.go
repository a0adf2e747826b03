// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     register
// Description: Bubble Tea model for the registration form
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package register

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/remote"
	"github.com/themandi/JoyJoin/pkg/core/metrics"
)

// slotSubmit is the focus slot of the submit button, after the seven fields
const slotSubmit = int(registration.FieldRules) + 1

// Config holds the configuration of the registration TUI
type Config struct {
	Checker     remote.Checker
	Submitter   remote.Submitter
	StalePolicy registration.StalePolicy
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Submit key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Toggle, k.Submit, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "back")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "accept rules")),
	Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "register")),
	Enter:  key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("ctrl+c", "quit")),
}

// Model is the main Bubble Tea model
type Model struct {
	// Dimensions
	width, height int
	ready         bool

	// State
	form       *registration.Form
	state      registration.FormState
	focus      int
	submitting bool
	submitted  bool
	err        error

	// Components
	inputs  []textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	// Collaborators
	ctx       context.Context
	checker   remote.Checker
	submitter remote.Submitter
	log       *zap.Logger
}

// NewModel creates a new registration model
func NewModel(cfg Config) Model {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	placeholders := map[registration.Field]string{
		registration.FieldLogin:           "lowercase, 3-20 characters",
		registration.FieldName:            "First Last",
		registration.FieldEmail:           "you@example.com",
		registration.FieldPassword:        "at least 8 characters",
		registration.FieldPasswordConfirm: "repeat password",
		registration.FieldBirthDate:       "YYYY-MM-DD",
	}

	inputs := make([]textinput.Model, int(registration.FieldRules))
	for i := range inputs {
		f := registration.Field(i)
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[f]
		ti.CharLimit = 128
		ti.Width = 40
		ti.Cursor.SetMode(cursor.CursorStatic)
		if f == registration.FieldPassword || f == registration.FieldPasswordConfirm {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		inputs[i] = ti
	}
	inputs[registration.FieldLogin].Focus()

	form := registration.NewForm(registration.Options{
		StalePolicy: cfg.StalePolicy,
		Logger:      log,
		Metrics:     cfg.Metrics,
	})

	return Model{
		form:      form,
		state:     form.Snapshot(),
		inputs:    inputs,
		spinner:   s,
		help:      help.New(),
		keys:      defaultKeys,
		ctx:       context.Background(),
		checker:   cfg.Checker,
		submitter: cfg.Submitter,
		log:       log,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case checkResultMsg:
		cmds = append(cmds, m.dispatch(m.form.Resolve(msg.result)))
		m.refresh()

	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.log.Error("submission failed", zap.Error(msg.err))
		} else {
			m.err = nil
			m.submitted = true
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case m.submitted || m.submitting:
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m, m.moveFocus(-1)

	case key.Matches(msg, m.keys.Submit):
		return m, m.attemptSubmit()

	case key.Matches(msg, m.keys.Enter):
		if m.focus == slotSubmit {
			return m, m.attemptSubmit()
		}
		return m, m.moveFocus(1)

	case m.focus == int(registration.FieldRules) && key.Matches(msg, m.keys.Toggle):
		accepted := !m.state.Field(registration.FieldRules).Accepted
		cmd := m.dispatch(m.form.SetRulesAccepted(accepted))
		m.refresh()
		return m, cmd
	}

	if m.focus >= len(m.inputs) {
		return m, nil
	}

	f := registration.Field(m.focus)
	before := m.inputs[m.focus].Value()
	// cursor blink commands are dropped, the cursor is static
	m.inputs[m.focus], _ = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()
	if after == before {
		return m, nil
	}

	cmd := m.dispatch(m.form.Input(f, after))
	m.refresh()
	return m, cmd
}

// moveFocus blurs the current slot and focuses the next enabled one
func (m *Model) moveFocus(delta int) tea.Cmd {
	slots := slotSubmit + 1
	next := m.focus
	for i := 0; i < slots; i++ {
		next = (next + delta + slots) % slots
		if next == slotSubmit || !m.state.Field(registration.Field(next)).Disabled {
			break
		}
	}
	if next == m.focus {
		return nil
	}

	if m.focus < slotSubmit {
		m.form.Blur(registration.Field(m.focus))
	}
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}

	m.focus = next
	var cmd tea.Cmd
	if next < slotSubmit {
		cmd = m.dispatch(m.form.Focus(registration.Field(next)))
	}
	if next < len(m.inputs) {
		m.inputs[next].Focus()
	}

	m.refresh()
	return cmd
}

func (m *Model) attemptSubmit() tea.Cmd {
	forward, reqs := m.form.AttemptSubmit()
	m.refresh()
	if !forward {
		return m.dispatch(reqs)
	}

	m.submitting = true
	return submitCmd(m.ctx, m.submitter, m.form.Values())
}

// dispatch turns engine requests into commands
func (m *Model) dispatch(reqs []registration.Request) tea.Cmd {
	if len(reqs) == 0 || m.checker == nil {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		cmds = append(cmds, checkCmd(m.ctx, m.checker, req))
	}
	return tea.Batch(cmds...)
}

// refresh copies the engine state and mirrors disabled fields into the inputs
func (m *Model) refresh() {
	m.state = m.form.Snapshot()
	for i := range m.inputs {
		if m.state.Field(registration.Field(i)).Disabled && i == m.focus {
			m.inputs[i].Blur()
		}
	}
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "Loading registration form..."
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("JoyJoin · Create account"))
	b.WriteString("\n")

	for _, f := range registration.AllFields() {
		b.WriteString(m.renderField(f))
		b.WriteString("\n")
	}

	b.WriteString(m.renderButton())
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderField(f registration.Field) string {
	s := m.state.Field(f)
	focused := m.focus == int(f)

	labelStyle := LabelStyle
	switch {
	case s.Disabled:
		labelStyle = DisabledLabelStyle
	case focused:
		labelStyle = FocusedLabelStyle
	}

	var body string
	if f == registration.FieldRules {
		box := IconUnchecked
		if s.Accepted {
			box = IconChecked
		}
		body = labelStyle.Render(box+f.Label()) + " " + stateIcon(s)
	} else {
		suffix := stateIcon(s)
		if s.Validity == registration.ValidityPending {
			suffix = m.spinner.View()
		}
		body = labelStyle.Render(f.Label()) + "\n" +
			lipgloss.JoinHorizontal(lipgloss.Center,
				inputStyleFor(s).Render(m.inputs[f].View()), " ", suffix)
	}

	if s.PanelVisible {
		body += "\n" + WarningPanelStyle.Render(strings.Join(s.Messages(), "\n"))
	}
	return body
}

func (m Model) renderButton() string {
	if m.focus == slotSubmit {
		return FocusedButtonStyle.Render("Register")
	}
	return ButtonStyle.Render("Register")
}

func (m Model) renderStatus() string {
	switch {
	case m.submitting:
		return m.spinner.View() + StatusMutedStyle.Render(" Sending registration...")
	case m.submitted:
		return StatusSuccessStyle.Render("Registration sent. Check your e-mail.")
	case m.err != nil:
		return StatusErrorStyle.Render(fmt.Sprintf("Registration failed: %v", m.err))
	case m.state.SubmitAttempted && !m.state.Submittable:
		return StatusErrorStyle.Render("Some fields still need attention.")
	}
	return StatusMutedStyle.Render("All fields are required.")
}

// Run starts the registration TUI
func Run(cfg Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
