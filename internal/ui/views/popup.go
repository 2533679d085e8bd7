package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centres popupContent on the screen. Content taller than the
// screen is cut with a marker; the pager is the place for long content.
func (pr *PopupRenderer) RenderPopup(popupContent string, height, width int, footer string) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	// border and padding take 4 rows, the footer 2
	maxLines := height - 8
	if maxLines < 3 {
		maxLines = 3
	}
	lines := strings.Split(popupContent, "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines-1], pr.styles.Scroll.Render("↓ (more below)"))
	}
	body := strings.Join(lines, "\n")
	if footer != "" {
		body += "\n\n" + pr.styles.Help.Render(footer)
	}

	box := pr.styles.PopupBox.MaxWidth(width - 2).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
