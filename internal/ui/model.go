package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stigoleg/keepalive-motion/internal/keepalive"
)

// State is the screen the TUI is showing
type State int

const (
	StateMenu State = iota
	StateTimedInput
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "Menu"
	case StateTimedInput:
		return "TimedInput"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// Keeper is the part of keepalive.Keeper the TUI drives
type Keeper interface {
	StartIndefinite() error
	StartTimed(d time.Duration) error
	Stop() error
	IsRunning() bool
	TimeRemaining() time.Duration
	Status() keepalive.Status
}

// Model holds the current state of the UI, including user input and keep-alive state.
type Model struct {
	State        State
	Selected     int
	Input        string
	Keeper       Keeper
	ErrorMessage string
	Duration     time.Duration
	Status       keepalive.Status
	ShowHelp     bool

	keys   KeyMap
	help   help.Model
	tickID int
}

// InitialModel returns the initial model for the TUI.
func InitialModel(k Keeper) Model {
	return Model{
		State:  StateMenu,
		Keeper: k,
		keys:   DefaultKeys(),
		help:   help.New(),
	}
}

// InitialModelWithDuration returns a model that is already running. A
// zero duration runs until stopped.
func InitialModelWithDuration(k Keeper, d time.Duration) Model {
	m := InitialModel(k)

	var err error
	if d > 0 {
		err = k.StartTimed(d)
	} else {
		err = k.StartIndefinite()
	}
	if err != nil {
		m.ErrorMessage = err.Error()
		return m
	}

	m.State = StateRunning
	m.Duration = d
	m.Status = k.Status()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.State == StateRunning {
		return tick(m.tickID)
	}
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return Update(msg, m)
}

// View implements tea.Model
func (m Model) View() string {
	return View(m)
}

// TimeRemaining returns the remaining duration for timed keep-alive
func (m Model) TimeRemaining() time.Duration {
	if m.State != StateRunning || m.Duration <= 0 {
		return 0
	}
	return m.Keeper.TimeRemaining()
}
