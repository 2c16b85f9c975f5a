// Package tui is the interactive terminal front end: a drive list, a
// confirmation dialog and a live progress screen for the running wipe.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"hdzero/internal/app"
	"hdzero/internal/orchestrator"
	"hdzero/internal/security"
	"hdzero/internal/system"
	"hdzero/internal/wipe"
)

// Backend is the part of the app facade the UI drives.
type Backend interface {
	Drives(ctx context.Context) ([]system.Drive, error)
	Options() wipe.Options
	Hazards(drive system.Drive) []security.Hazard
	Start(req orchestrator.Request) error
	Cancel()
	Busy() bool
}

type screen int

const (
	screenDrives screen = iota
	screenConfirm
	screenProgress
	screenSummary
)

const refreshTimeout = 30 * time.Second

type drivesMsg struct {
	drives []system.Drive
	err    error
}

// Model implements tea.Model.
type Model struct {
	backend Backend
	keys    keyMap
	screen  screen

	drives  []system.Drive
	cursor  int
	loading bool
	err     error

	pending *confirmMsg
	yes     bool

	status   orchestrator.Status
	warnings []string
	summary  *orchestrator.Summary
	bar      progress.Model

	width int
}

func New(backend Backend) Model {
	return Model{
		backend: backend,
		keys:    defaultKeys(),
		screen:  screenDrives,
		loading: true,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		drives, err := backend.Drives(ctx)
		return drivesMsg{drives: drives, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-4, 10), 80)
		return m, nil

	case drivesMsg:
		m.loading = false
		m.drives, m.err = msg.drives, msg.err
		if m.cursor >= len(m.drives) {
			m.cursor = max(len(m.drives)-1, 0)
		}
		return m, nil

	case confirmMsg:
		m.pending = &msg
		m.yes = false
		m.screen = screenConfirm
		return m, nil

	case statusMsg:
		m.status = orchestrator.Status(msg)
		if m.screen != screenConfirm && m.status.State != orchestrator.StateIdle && m.status.State != orchestrator.StateConfirming {
			m.screen = screenProgress
		}
		return m, nil

	case warnMsg:
		m.warnings = append(m.warnings, string(msg))
		return m, nil

	case finishedMsg:
		s := orchestrator.Summary(msg)
		m.summary = &s
		m.pending = nil
		m.screen = screenSummary
		m.loading = true
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && (msg.String() == "ctrl+c" || m.screen == screenDrives || m.screen == screenSummary) {
		m.answer(false)
		if m.backend.Busy() {
			m.backend.Cancel()
		}
		return m, tea.Quit
	}

	switch m.screen {
	case screenDrives:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.drives)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.refresh()
		case key.Matches(msg, m.keys.Wipe):
			if len(m.drives) == 0 {
				return m, nil
			}
			m.warnings = nil
			m.summary = nil
			m.status = orchestrator.Status{}
			if err := m.backend.Start(app.DriveRequest(m.drives[m.cursor], m.backend.Options())); err != nil {
				m.err = err
			}
		}

	case screenConfirm:
		switch {
		case key.Matches(msg, m.keys.Yes):
			m.yes = true
		case key.Matches(msg, m.keys.No):
			m.yes = false
		case key.Matches(msg, m.keys.Toggle):
			m.yes = !m.yes
		case key.Matches(msg, m.keys.Confirm):
			m.answer(m.yes)
			m.screen = screenProgress
		case msg.String() == "esc":
			m.answer(false)
			m.screen = screenProgress
		}

	case screenProgress:
		if key.Matches(msg, m.keys.Cancel) {
			m.backend.Cancel()
		}

	case screenSummary:
		if key.Matches(msg, m.keys.Back) {
			m.screen = screenDrives
		}
	}
	return m, nil
}

// answer отвечает на ожидающий вопрос подтверждения
func (m *Model) answer(yes bool) {
	if m.pending == nil {
		return
	}
	m.pending.reply <- yes
	m.pending = nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("hdzero"))
	b.WriteString("\n")

	switch m.screen {
	case screenDrives:
		m.viewDrives(&b)
	case screenConfirm:
		m.viewConfirm(&b)
	case screenProgress:
		m.viewProgress(&b)
	case screenSummary:
		m.viewSummary(&b)
	}
	return b.String()
}

func (m Model) viewDrives(b *strings.Builder) {
	switch {
	case m.loading && len(m.drives) == 0:
		b.WriteString(subtleStyle.Render("Reading drives..."))
		b.WriteString("\n")
	case len(m.drives) == 0:
		b.WriteString("No drives found.\n")
	}

	for i, d := range m.drives {
		line := fmt.Sprintf("%s  %s  %s", d.DeviceID, d.Label, system.ReadableSize(d.Size))
		if len(d.Mounts) > 0 {
			line += "  [" + strings.Join(d.Mounts, " ") + "]"
		}
		if hz := m.backend.Hazards(d); len(hz) > 0 {
			line += errorStyle.Render("  (protected)")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • enter wipe • r refresh • q quit"))
}

func (m Model) viewConfirm(b *strings.Builder) {
	if m.pending == nil {
		return
	}
	text := m.pending.conf.Text()
	if m.pending.round > 1 {
		text = fmt.Sprintf("Confirmation %d of %d\n\n%s", m.pending.round, m.pending.conf.Rounds, text)
	}
	no, yes := selectedStyle.Render("[ No ]"), subtleStyle.Render("  Yes  ")
	if m.yes {
		no, yes = subtleStyle.Render("  No  "), errorStyle.Bold(true).Render("[ Yes ]")
	}
	b.WriteString(boxStyle.Render(strings.TrimRight(text, "\n") + "\n\n" + no + "   " + yes))
	b.WriteString(helpStyle.Render("y/n choose • enter confirm • esc abort"))
}

func (m Model) viewProgress(b *strings.Builder) {
	st := m.status
	fmt.Fprintf(b, "%s  %s\n", selectedStyle.Render(string(st.State)), st.Target)
	if st.Items > 1 {
		fmt.Fprintf(b, "File %d of %d\n", st.Item, st.Items)
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(st.Fraction))
	b.WriteString("\n\n")
	if st.Line != "" {
		b.WriteString(st.Line)
		b.WriteString("\n")
	}
	m.viewWarnings(b)
	b.WriteString(helpStyle.Render("c cancel • ctrl+c quit"))
}

func (m Model) viewSummary(b *strings.Builder) {
	if m.summary == nil {
		return
	}
	s := m.summary
	style := errorStyle
	switch {
	case s.Success:
		style = successStyle
	case s.Declined || s.Cancelled:
		style = warningStyle
	}
	b.WriteString(style.Render(strings.TrimRight(s.Text(), "\n")))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter back • q quit"))
}

func (m Model) viewWarnings(b *strings.Builder) {
	for _, w := range m.warnings {
		b.WriteString(warningStyle.Render("! " + w))
		b.WriteString("\n")
	}
}

// Run запускает TUI и блокируется до выхода пользователя
func Run(backend Backend, reporter *Reporter) error {
	p := tea.NewProgram(New(backend), tea.WithAltScreen())
	reporter.Attach(p)
	_, err := p.Run()
	reporter.Attach(nil)
	return err
}
