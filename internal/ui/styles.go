package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the board.
type Styles struct {
	Title       lipgloss.Style
	SectionKey  lipgloss.Style
	Row         lipgloss.Style
	RowDone     lipgloss.Style
	Priority    lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Main        lipgloss.Style
}

// NewStyles creates a new Styles instance with default values.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		SectionKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")),
		Row:         lipgloss.NewStyle(),
		RowDone:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Priority:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
	}
}
