package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tmarek/padlock/internal/slots"
)

// Color palette for the watch view
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - physical pads, success
	ErrorColor   = lipgloss.Color("#FF5555") // Red - erroneous slots
	VirtualColor = lipgloss.Color("#5FAFFF") // Blue - virtual pads
	MutedColor   = lipgloss.Color("#626262") // Gray - free slots, help text
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Shared styles for the watch view
var (
	// TitleStyle is for the view header
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// HelpStyle is for the key help line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// WaitingStyle is for the spinner line
	WaitingStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(1)

	// SuccessStyle is for the final "controller connected" line
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true).
			PaddingLeft(1)

	// slotBoxStyle is the base box every slot cell builds on
	slotBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(1)

	// targetBoxStyle marks the reserved slot
	targetBoxStyle = slotBoxStyle.BorderForeground(PrimaryColor)
)

// slotColor maps a slot state to its display color.
func slotColor(state slots.State) lipgloss.Color {
	switch state {
	case slots.Physical:
		return SuccessColor
	case slots.Virtual:
		return VirtualColor
	case slots.Erroneous:
		return ErrorColor
	default:
		return MutedColor
	}
}

// slotLabel maps a slot state to the cell content, matching the state line
// characters: digit for a physical pad, x/X for virtual/erroneous, - free.
func slotLabel(state slots.State, index int) string {
	switch state {
	case slots.Physical:
		return string(rune('1' + index))
	case slots.Virtual:
		return "x"
	case slots.Erroneous:
		return "X"
	default:
		return "-"
	}
}

// RenderSlots renders one styled box per slot, highlighting the target.
func RenderSlots(states []slots.State, target int) string {
	cells := make([]string, len(states))
	for i, state := range states {
		box := slotBoxStyle
		if i == target {
			box = targetBoxStyle
		}
		label := lipgloss.NewStyle().
			Foreground(slotColor(state)).
			Bold(true).
			Render(slotLabel(state, i))
		cells[i] = box.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// GetTerminalWidth returns the terminal width, defaulting to 80 when it
// cannot be determined.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
