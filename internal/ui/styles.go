package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary    = lipgloss.Color("#d08c3b") // amber
	ColorSecondary  = lipgloss.Color("#4f7d6a") // pine
	ColorAccent     = lipgloss.Color("#b8a46a") // brass
	ColorBackground = lipgloss.Color("#141612") // dark
	ColorText       = lipgloss.Color("#dcdcd2") // main text
	ColorMuted      = lipgloss.Color("#9aa39c") // muted text
	ColorSuccess    = lipgloss.Color("#5f9a6e") // green
	ColorError      = lipgloss.Color("#b4534f") // red
	ColorWarning    = lipgloss.Color("#c99a4a") // warning
	ColorBorder     = lipgloss.Color("#2f3a33") // border
)

// --- Reusable Styles ---

var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	TabInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// FilterActiveStyle marks the filter the arrow keys currently cycle.
	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorBackground).
				Background(ColorSecondary).
				Bold(true).
				Padding(0, 1)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Padding(0, 1)

	TypeBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorBackground).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 2)
)
