package countdown

import "github.com/charmbracelet/lipgloss"

const (
	padding  = 2
	maxWidth = 60
)

// Style holds the lipgloss styles of the countdown screen.
type Style struct {
	Base      lipgloss.Style
	Title     lipgloss.Style
	Main      lipgloss.Style
	Secondary lipgloss.Style
	Hint      lipgloss.Style
	Error     lipgloss.Style
}

// NewStyle returns the styles for a dark or light terminal background.
func NewStyle(dark bool) Style {
	main := lipgloss.Color("#2E7D6B")
	secondary := lipgloss.Color("#5B4B8A")
	hint := lipgloss.Color("#6C6C6C")
	errColor := lipgloss.Color("#C62828")

	if dark {
		main = lipgloss.Color("#7FD1B9")
		secondary = lipgloss.Color("#B8A9E3")
		hint = lipgloss.Color("#9E9E9E")
		errColor = lipgloss.Color("#FF6F61")
	}

	return Style{
		Base:      lipgloss.NewStyle().Padding(1, padding),
		Title:     lipgloss.NewStyle().Foreground(secondary).Bold(true),
		Main:      lipgloss.NewStyle().Foreground(main).Bold(true),
		Secondary: lipgloss.NewStyle().Foreground(secondary),
		Hint:      lipgloss.NewStyle().Foreground(hint).MarginLeft(1),
		Error:     lipgloss.NewStyle().Foreground(errColor),
	}
}
