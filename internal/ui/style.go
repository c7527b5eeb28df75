// Package ui provides the terminal user interface for the keep-alive application.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Colors defines the color scheme used throughout the application
type Colors struct {
	Subtle    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Special   lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
}

var defaultColors = Colors{
	Subtle:    lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"},
	Highlight: lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"},
	Special:   lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"},
	Warning:   lipgloss.AdaptiveColor{Light: "#C7862B", Dark: "#F2B84B"},
	Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF4040"},
}

// progress bar gradient end points
const (
	gradientFrom = "#7D56F4"
	gradientTo   = "#43BF6D"
)

// Style represents a collection of styles used in the application
type Style struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Active     lipgloss.Style
	Waiting    lipgloss.Style
	Label      lipgloss.Style
	Value      lipgloss.Style
	InputBox   lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	ErrorBox   lipgloss.Style
	Countdown  lipgloss.Style
	BarEmpty   lipgloss.Style
	Bar        lipgloss.Style
}

// DefaultStyle returns the default style configuration
func DefaultStyle() Style {
	base := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1)

	return Style{
		Title: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Selected: base.
			Bold(true).
			Foreground(defaultColors.Highlight),

		Unselected: base,

		Active: base.
			Bold(true).
			Foreground(defaultColors.Special),

		Waiting: base.
			Bold(true).
			Foreground(defaultColors.Warning),

		Label: base.
			Width(16).
			Foreground(defaultColors.Subtle),

		Value: lipgloss.NewStyle(),

		InputBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Highlight).
			Padding(0, 1),

		Help: base.
			Foreground(defaultColors.Subtle),

		Error: base.
			Foreground(defaultColors.Error),

		ErrorBox: base.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(defaultColors.Error).
			Padding(0, 1),

		Countdown: base.
			Foreground(defaultColors.Highlight).
			Bold(true),

		BarEmpty: lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#333333"}),

		Bar: base,
	}
}

// Current holds the current style configuration
var Current = DefaultStyle()

// RenderError styles an error for the command line. Errors with a
// details section, separated by a blank line, are drawn in a box.
func RenderError(err error) string {
	msg := err.Error()
	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) != 2 {
		return Current.Error.Render(msg)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(defaultColors.Error).
		Render(parts[0])

	details := lipgloss.NewStyle().
		Foreground(defaultColors.Subtle).
		Render(parts[1])

	return Current.ErrorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
}

// progressBar renders progress in [0,1] as width cells blending from the
// highlight color to the special color.
func progressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}

	from, _ := colorful.Hex(gradientFrom)
	to, _ := colorful.Hex(gradientTo)

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i >= filled {
			b.WriteString(Current.BarEmpty.Render(" "))
			continue
		}
		c := from.BlendLuv(to, float64(i)/float64(max(width-1, 1))).Clamped()
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	return Current.Bar.Render(b.String())
}
