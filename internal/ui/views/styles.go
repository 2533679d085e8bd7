package views

import (
	"github.com/charmbracelet/lipgloss"

	"orderscope/internal/domain"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Prompt        lipgloss.Style
	Query         lipgloss.Style
	Label         lipgloss.Style
	Code          lipgloss.Style
	Price         lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	LoadMore      lipgloss.Style
	PopupBox      lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	NoticeError   lipgloss.Style
	NoticeWarning lipgloss.Style
	StatusLoading lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Query:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Code:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		Price:  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1),
		CardSelected: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("99")).
			PaddingLeft(1),
		LoadMore: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Italic(true),
		PopupBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		NoticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
	}
}

// GetStateColor returns the colour used for an order state
func GetStateColor(state domain.OrderState) string {
	switch state.Category() {
	case domain.StatePaid:
		return "33" // blue
	case domain.StateShipping:
		return "51" // cyan
	case domain.StateDone:
		return "78" // green
	case domain.StateCancelled:
		return "203" // red
	default:
		return "214" // yellow while the order is still being built
	}
}
