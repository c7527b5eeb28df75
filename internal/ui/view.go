package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stigoleg/keepalive-motion/internal/motion"
)

const progressWidth = 24

var menuLabels = [menuItems]string{
	"Keep system awake indefinitely",
	"Keep system awake for a while",
	"Quit keep-alive",
}

// View renders the current state of the model to a string.
func View(m Model) string {
	if m.ShowHelp {
		return helpView(m)
	}

	switch m.State {
	case StateMenu:
		return menuView(m)
	case StateTimedInput:
		return timedInputView(m)
	case StateRunning:
		return runningView(m)
	}

	return ""
}

func menuView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Keep Alive Options"))
	b.WriteString("\n\n")

	for i, label := range menuLabels {
		if i == m.Selected {
			b.WriteString(Current.Selected.Render("> " + label))
		} else {
			b.WriteString(Current.Unselected.Render("  " + label))
		}
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys.ForState(StateMenu)))
	return b.String()
}

func timedInputView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Enter Duration"))
	b.WriteString("\n\n")

	b.WriteString(Current.Unselected.Render("Minutes, or a duration such as 1h30m:"))
	b.WriteString("\n")
	input := m.Input
	if input == "" {
		input = " "
	}
	b.WriteString(Current.InputBox.Render(input))
	b.WriteString("\n")

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys.ForState(StateTimedInput)))
	return b.String()
}

func runningView(m Model) string {
	var b strings.Builder
	st := m.Status

	b.WriteString(Current.Title.Render("Keep Alive Active"))
	b.WriteString("\n\n")

	switch st.State {
	case motion.StateIdleWaiting:
		b.WriteString(Current.Waiting.Render("Waiting for the mouse to rest"))
	case motion.StateDrawing:
		b.WriteString(Current.Active.Render("Drawing figure-eights"))
	default:
		b.WriteString(Current.Active.Render("Starting"))
	}
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Session", shortID(st.SessionID)},
		{"Anchor", st.Anchor.String()},
		{"Figures", strconv.Itoa(st.Figures)},
		{"Interruptions", strconv.Itoa(st.Interruptions)},
		{"Step delay", formatTicks(st.DelayTicks)},
		{"Last lobe", formatLobe(st.LastLobe)},
	}
	for _, r := range rows {
		b.WriteString(Current.Label.Render(r[0]) + Current.Value.Render(r[1]) + "\n")
	}

	if m.Duration > 0 {
		remaining := m.TimeRemaining()
		b.WriteString("\n")
		b.WriteString(Current.Countdown.Render(formatRemaining(remaining)))
		b.WriteString("\n")
		b.WriteString(progressBar(1-float64(remaining)/float64(m.Duration), progressWidth))
		b.WriteString("\n")
	}

	if m.ErrorMessage != "" {
		b.WriteString("\n" + Current.Error.Render(m.ErrorMessage) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys.ForState(StateRunning)))
	return b.String()
}

func helpView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Keep-Alive Help"))
	b.WriteString("\n\n")
	b.WriteString(Current.Help.Render(`Moves the cursor in a slow figure-eight while you are away.
Touching the mouse pauses drawing until it has rested for a while.

Usage:
  keepalive [flags]
  keepalive config init|path|show

Examples:
  keepalive                # Start with interactive TUI
  keepalive -d 2h30m       # Keep awake for 2 hours and 30 minutes
  keepalive -c 17:30       # Keep awake until 17:30
  keepalive --headless     # Run without the TUI`))
	b.WriteString("\n\n")

	h := m.help
	h.ShowAll = true
	b.WriteString(h.View(m.keys.ForState(m.State)))
	b.WriteString("\n\n")
	b.WriteString(Current.Help.Render("Press ? or esc to close help"))
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func formatTicks(ticks int64) string {
	return motion.TickDuration(ticks).Round(time.Microsecond).String()
}

func formatLobe(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func formatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d remaining", h, m, s)
	}
	return fmt.Sprintf("%d:%02d remaining", m, s)
}
