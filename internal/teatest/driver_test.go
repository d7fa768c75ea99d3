package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type pingMsg struct{}

type counter struct {
	width int
	keys  string
	pings int
}

func (c counter) Init() tea.Cmd {
	return func() tea.Msg { return pingMsg{} }
}

func (c counter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
	case pingMsg:
		c.pings++
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return c, tea.Quit
		case "p":
			return c, tea.Batch(
				func() tea.Msg { return pingMsg{} },
				func() tea.Msg { return pingMsg{} },
			)
		case "t":
			return c, tea.Tick(time.Hour, func(time.Time) tea.Msg { return pingMsg{} })
		default:
			c.keys += msg.String()
		}
	}
	return c, nil
}

func (c counter) View() string { return c.keys }

func TestDriver_DrainsInitAndBatches(t *testing.T) {
	d := New(t, counter{}, WithSize(80, 24))
	d.DrainInit()
	assert.Equal(t, 80, d.Model.(counter).width)
	assert.Equal(t, 1, d.Model.(counter).pings)

	d.PressKey('p')
	assert.Equal(t, 3, d.Model.(counter).pings)
	assert.Equal(t, 3, d.CountDelivered(pingMsg{}))
}

func TestDriver_AbandonsBlockingCmds(t *testing.T) {
	d := New(t, counter{}, WithCmdTimeout(time.Millisecond))
	d.PressKey('t')
	assert.Equal(t, 0, d.Model.(counter).pings)
}

func TestDriver_TypeAndQuit(t *testing.T) {
	d := New(t, counter{})
	d.Type("ab")
	assert.Equal(t, "ab", d.View())

	d.PressKey('q')
	assert.True(t, d.Quitting)
	d.PressKey('c')
	assert.Equal(t, "ab", d.View())
}

func TestDriver_WithSkip(t *testing.T) {
	d := New(t, counter{}, WithSkip(func(msg tea.Msg) bool {
		_, ok := msg.(pingMsg)
		return ok
	}))
	d.DrainInit()
	assert.Equal(t, 0, d.Model.(counter).pings)
}
