package menu

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#3B82F6") // Blue
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	TextColor      = lipgloss.Color("#F9FAFB")
	TextMutedColor = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	OptionStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	PromptStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	RunningStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(AccentColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)
)
