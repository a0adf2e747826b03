package register

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/themandi/JoyJoin/internal/registration"
)

// Color palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray
	ColorText    = lipgloss.Color("#F8FAFC") // Slate 50
)

var (
	TitleStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 2).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Bold(true)

	FocusedLabelStyle = LabelStyle.
				Foreground(ColorPrimary)

	DisabledLabelStyle = LabelStyle.
				Foreground(ColorDimmed).
				Bold(false)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1).
			Width(44)

	WarningPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ColorWarning).
				Foreground(ColorWarning).
				PaddingLeft(1).
				MarginLeft(2)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorDimmed).
			Padding(0, 3).
			MarginTop(1)

	FocusedButtonStyle = ButtonStyle.
				Background(ColorPrimary).
				Bold(true)

	StatusSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	StatusErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	StatusMutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// Icons
const (
	IconCorrect   = "✓ "
	IconIncorrect = "✗ "
	IconChecked   = "[x] "
	IconUnchecked = "[ ] "
)

// inputStyleFor colors the field border after its visual state
func inputStyleFor(s registration.FieldState) lipgloss.Style {
	switch {
	case s.Disabled:
		return InputStyle.BorderForeground(ColorDimmed)
	case s.Visual == registration.VisualCorrect:
		return InputStyle.BorderForeground(ColorSuccess)
	case s.Visual == registration.VisualIncorrect:
		return InputStyle.BorderForeground(ColorError)
	}
	return InputStyle
}

// stateIcon returns the marker shown after a field
func stateIcon(s registration.FieldState) string {
	switch s.Visual {
	case registration.VisualCorrect:
		return StatusSuccessStyle.Render(IconCorrect)
	case registration.VisualIncorrect:
		return StatusErrorStyle.Render(IconIncorrect)
	}
	return ""
}
