package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#175DAA", Dark: "#2186F3"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	BrandColor = lipgloss.Color("#2186F3")
	SunColor   = lipgloss.Color("#FFC900")
	ErrorColor = lipgloss.Color("196")
	MutedColor = lipgloss.Color("#888")

	TitleStyle = lipgloss.NewStyle().
			MarginLeft(1).
			MarginRight(2).
			Padding(0, 1).
			Italic(true).
			Foreground(lipgloss.Color("#FFF7DB"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Align(lipgloss.Left).
			Padding(0, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1).
			Margin(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(18)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555"))
)
