// Package tui implements the Bubble Tea TUI for retrace.
package tui

import "github.com/charmbracelet/lipgloss"

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorRed    = lipgloss.Color("#d75f6b") // red
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
)

// Styles used for rendering the TUI.
var (
	// Selected row style (matches the accent color).
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// Normal row style (no color, uses terminal default).
	normalStyle = lipgloss.NewStyle()

	// Current entry marker style.
	currentStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	// Address style for subtle URL text.
	addressStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Age style for relative timestamps.
	ageStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	// Position summary in the status line.
	positionStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	// Transient status message styles.
	statusOKStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			PaddingLeft(1)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(1)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			PaddingLeft(1)

	// Help line at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	// Empty history hint.
	emptyStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true).
			PaddingLeft(1)

	// URL input bar shown in insert mode.
	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 1)
)

// Banner ASCII art for the header.
const banner = `
 ╦═╗╔═╗╔╦╗╦═╗╔═╗╔═╗╔═╗
 ╠╦╝║╣  ║ ╠╦╝╠═╣║  ║╣
 ╩╚═╚═╝ ╩ ╩╚═╩ ╩╚═╚═╝`

// bannerStyle styles the ASCII art banner.
var bannerStyle = lipgloss.NewStyle().
	Foreground(colorBlue).
	Bold(true).
	PaddingLeft(1).
	PaddingBottom(1)
