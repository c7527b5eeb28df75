package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/keepalive-motion/internal/util"
)

const (
	menuIndefinite = iota
	menuTimed
	menuQuit
	menuItems
)

const maxInputLen = 10

// tickMsg refreshes the running view. Ticks from an earlier session carry
// a stale id and are dropped.
type tickMsg struct {
	id   int
	time time.Time
}

// Update handles messages and updates the model accordingly.
func Update(msg tea.Msg, m Model) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if msg.id != m.tickID {
			return m, nil
		}
		return m.refresh()
	case tea.KeyMsg:
		if m.ShowHelp {
			return m.updateHelp(msg)
		}
		switch m.State {
		case StateMenu:
			return m.updateMenu(msg)
		case StateTimedInput:
			return m.updateTimedInput(msg)
		case StateRunning:
			return m.updateRunning(msg)
		}
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if key.Matches(msg, m.keys.ToggleHelp, m.keys.Back, m.keys.Quit) {
		m.ShowHelp = false
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Selected < menuItems-1 {
			m.Selected++
		}
	case key.Matches(msg, m.keys.Select):
		switch m.Selected {
		case menuIndefinite:
			if err := m.Keeper.StartIndefinite(); err != nil {
				m.ErrorMessage = err.Error()
				return m, nil
			}
			return m.running(0)
		case menuTimed:
			m.State = StateTimedInput
			m.Input = ""
			m.ErrorMessage = ""
		case menuQuit:
			return m.quit()
		}
	case key.Matches(msg, m.keys.ToggleHelp):
		m.ShowHelp = true
	case key.Matches(msg, m.keys.Quit, m.keys.Back):
		return m.quit()
	}
	return m, nil
}

func (m Model) updateTimedInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.Input == "" {
			m.ErrorMessage = "Please enter a duration"
			return m, nil
		}
		d, err := util.ParseDuration(m.Input)
		if err != nil {
			m.ErrorMessage = "Invalid duration"
			return m, nil
		}
		if d <= 0 {
			m.ErrorMessage = "Duration must be positive"
			return m, nil
		}
		if err := m.Keeper.StartTimed(d); err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		return m.running(d)
	case key.Matches(msg, m.keys.Back):
		m.State = StateMenu
		m.ErrorMessage = ""
	case key.Matches(msg, m.keys.Backspace):
		if len(m.Input) > 0 {
			m.Input = m.Input[:len(m.Input)-1]
			m.ErrorMessage = ""
		}
	case msg.String() == "ctrl+c":
		return m.quit()
	default:
		s := msg.String()
		if len(s) == 1 && strings.ContainsAny(s, "0123456789hms") && len(m.Input) < maxInputLen {
			m.Input += s
			m.ErrorMessage = ""
		}
	}
	return m, nil
}

func (m Model) updateRunning(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Stop):
		if err := m.Keeper.Stop(); err != nil {
			m.ErrorMessage = err.Error()
			return m, nil
		}
		m.State = StateMenu
		m.ErrorMessage = ""
		m.tickID++
	case key.Matches(msg, m.keys.ToggleHelp):
		m.ShowHelp = true
	case key.Matches(msg, m.keys.Quit, m.keys.Back):
		return m.quit()
	}
	return m, nil
}

// running switches to the running view and starts a fresh tick chain.
func (m Model) running(d time.Duration) (Model, tea.Cmd) {
	m.State = StateRunning
	m.Duration = d
	m.ErrorMessage = ""
	m.Status = m.Keeper.Status()
	m.tickID++
	return m, tick(m.tickID)
}

// refresh polls the keeper. A session that ended on its own, through its
// timer or a failure, returns to the menu.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.State != StateRunning {
		return m, nil
	}

	m.Status = m.Keeper.Status()
	if !m.Keeper.IsRunning() {
		m.State = StateMenu
		m.ErrorMessage = ""
		if m.Status.Err != nil {
			m.ErrorMessage = "Stopped: " + m.Status.Err.Error()
		}
		return m, nil
	}
	return m, tick(m.tickID)
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.Keeper.IsRunning() {
		if err := m.Keeper.Stop(); err != nil {
			m.ErrorMessage = err.Error()
		}
	}
	return m, tea.Quit
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{id: id, time: t}
	})
}
