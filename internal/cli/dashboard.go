package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/cli/formatter"
	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/alexanderramin/shiftlog/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// ── messages ─────────────────────────────────────────────────────────────────

type tickMsg time.Time

// clockResultMsg carries the outcome of a clock operation.
type clockResultMsg struct {
	action string
	snap   service.ClockSnapshot
	err    error
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeys struct {
	ClockIn  key.Binding
	ClockOut key.Binding
	Save     key.Binding
	Skip     key.Binding
	Quit     key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		ClockIn:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "clock in")),
		ClockOut: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "clock out")),
		Save:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save note")),
		Skip:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "skip note")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel is the live clock screen: running timer, weekly histogram and
// an inline note prompt after clocking out.
type dashboardModel struct {
	app  *App
	ctx  context.Context
	keys dashboardKeys
	note textinput.Model

	snap    service.ClockSnapshot
	week    domain.WeeklyBucket
	now     time.Time
	message string
	err     error
	width   int
}

func newDashboardModel(ctx context.Context, app *App) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "What did you work on?"
	ti.CharLimit = domain.MaxNoteLength
	ti.Width = 50

	m := dashboardModel{
		app:  app,
		ctx:  ctx,
		keys: newDashboardKeys(),
		note: ti,
	}
	m.refresh()
	return m
}

func (m *dashboardModel) refresh() {
	m.snap = m.app.Tracker.Snapshot()
	m.week = m.app.Tracker.Week()
	m.now = m.app.now()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m dashboardModel) Init() tea.Cmd {
	return tick()
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case clockResultMsg:
		m.refresh()
		m.err = msg.err
		if msg.err != nil {
			m.message = ""
			return m, nil
		}
		m.message = m.describe(msg)
		if m.snap.State == domain.StatePendingNote {
			m.note.Reset()
			return m, m.note.Focus()
		}
		m.note.Blur()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.snap.State == domain.StatePendingNote {
		switch {
		case key.Matches(msg, m.keys.Save):
			return m, m.run("note", func(ctx context.Context) (service.ClockSnapshot, error) {
				if strings.TrimSpace(m.note.Value()) == "" {
					return m.app.Tracker.SkipNote(ctx)
				}
				return m.app.Tracker.SaveNote(ctx, m.note.Value())
			})
		case key.Matches(msg, m.keys.Skip):
			return m, m.run("skip", m.app.Tracker.SkipNote)
		}
		var cmd tea.Cmd
		m.note, cmd = m.note.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ClockIn):
		return m, m.run("in", m.app.Tracker.ClockIn)
	case key.Matches(msg, m.keys.ClockOut):
		return m, m.run("out", m.app.Tracker.ClockOut)
	}
	return m, nil
}

func (m dashboardModel) run(action string, op func(context.Context) (service.ClockSnapshot, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		snap, err := op(ctx)
		return clockResultMsg{action: action, snap: snap, err: err}
	}
}

func (m dashboardModel) describe(msg clockResultMsg) string {
	switch msg.action {
	case "in":
		if msg.snap.State == domain.StateClockedIn {
			return "Clocked in at " + msg.snap.ClockIn.Format("15:04")
		}
	case "out":
		if p := msg.snap.Pending; p != nil {
			return fmt.Sprintf("Clocked out after %sh", formatter.FormatHours(p.Duration()))
		}
	case "note":
		return "Note saved"
	case "skip":
		return "Note skipped"
	}
	return ""
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(formatter.Header("shiftlog · "+m.app.Tracker.User().Name()) + "\n\n")
	b.WriteString(formatter.StateBadge(m.snap.State))
	switch m.snap.State {
	case domain.StateClockedIn:
		elapsed := m.now.Sub(m.snap.ClockIn)
		fmt.Fprintf(&b, "  %s  %s", formatter.Dim("since "+m.snap.ClockIn.Format("15:04")),
			formatter.StyleGreen.Render(formatter.FormatElapsed(elapsed)))
	case domain.StatePendingNote:
		if p := m.snap.Pending; p != nil {
			fmt.Fprintf(&b, "  %s", formatter.Dim(formatter.FormatHours(p.Duration())+"h worked"))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(formatter.FormatWeek(m.week, m.app.histogramScale()))

	if m.snap.State == domain.StatePendingNote {
		b.WriteString("\n" + formatter.Bold("Note: ") + m.note.View() + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.message != "" {
		b.WriteString("\n" + formatter.StyleBlue.Render(m.message) + "\n")
	}

	b.WriteString("\n" + m.helpLine() + "\n")
	return b.String()
}

func (m dashboardModel) shortHelp() []key.Binding {
	if m.snap.State == domain.StatePendingNote {
		return []key.Binding{m.keys.Save, m.keys.Skip}
	}
	bindings := make([]key.Binding, 0, 2)
	if m.snap.State == domain.StateIdle {
		bindings = append(bindings, m.keys.ClockIn)
	} else {
		bindings = append(bindings, m.keys.ClockOut)
	}
	return append(bindings, m.keys.Quit)
}

func (m dashboardModel) helpLine() string {
	var hints []string
	for _, b := range m.shortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	return strings.Join(hints, "  ")
}

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Live clock with the weekly histogram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.start(ctx); err != nil {
				return err
			}
			app.reportReconcile(cmd.OutOrStdout())
			p := tea.NewProgram(newDashboardModel(ctx, app), tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
			_, err := p.Run()
			return err
		},
	}
}
