package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// NoticeLevel selects the style of the inline notice
type NoticeLevel int

const (
	NoticeNone NoticeLevel = iota
	NoticeError
	NoticeWarning
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	SearchFocused bool
	SearchPrompt  string
	SearchField   string // rendered text input
	Query         string

	Loading     bool   // a search is outstanding
	LoadingMore bool   // a load-more is outstanding
	Spinner     string // current spinner frame
	Phase       string

	List              string // rendered viewport
	ResultCount       int
	TotalItems        int
	Page              int
	LoadMoreAvailable bool

	Notice        string
	NoticeLevel   NoticeLevel
	StatusMessage string

	HelpView      string
	ShowHelp      bool
	HelpContent   string
	ShowDetail    bool
	DetailContent string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	orderRender *OrderRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showPreview bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		orderRender: NewOrderRenderer(styles, showPreview),
		popupRender: NewPopupRenderer(styles),
	}
}

// Orders returns the order card renderer
func (r *Renderer) Orders() *OrderRenderer {
	return r.orderRender
}

// Styles returns the styles in use
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// ChromeHeight is the number of rows Render uses around the order list
const ChromeHeight = 9

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowDetail && state.DetailContent != "" {
		return r.popupRender.RenderPopup(state.DetailContent, state.Height, state.Width, "esc/q close")
	}
	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width, "esc/? close")
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n\n")
	content.WriteString(r.renderSearchLine(state))
	content.WriteString("\n\n")

	switch {
	case state.Loading:
		// the list is hidden while a search is outstanding
		content.WriteString(r.styles.StatusLoading.Render(state.Spinner + " Loading orders..."))
	case state.ResultCount == 0 && state.Query != "":
		content.WriteString(r.styles.Dim.Render(fmt.Sprintf("No orders match %q.", state.Query)))
	case state.ResultCount == 0:
		content.WriteString(r.styles.Dim.Render("You have not placed any orders yet."))
	default:
		content.WriteString(state.List)
	}
	content.WriteString("\n\n")

	content.WriteString(r.renderFooterLine(state))
	content.WriteString("\n")
	content.WriteString(state.HelpView)

	return r.styles.Main.MaxHeight(state.Height).Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("orderscope")

	right := ""
	if state.ResultCount > 0 || state.TotalItems > 0 {
		if state.Query != "" {
			right = fmt.Sprintf("%d found", state.ResultCount)
		} else {
			right = fmt.Sprintf("%d of %d orders", state.ResultCount, state.TotalItems)
			if state.Page > 1 {
				right += fmt.Sprintf(", page %d", state.Page)
			}
		}
	}
	if right == "" {
		return logo
	}
	right = r.styles.Dim.Render(right)

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderSearchLine(state ViewState) string {
	prompt := state.SearchPrompt
	if prompt == "" {
		prompt = "Order code: "
	}
	if state.SearchFocused {
		return r.styles.Prompt.Render(prompt) + state.SearchField
	}
	if state.Query == "" {
		return r.styles.Dim.Render(prompt + "press / to search")
	}
	return r.styles.Dim.Render(prompt) + r.styles.Query.Render(state.Query)
}

func (r *Renderer) renderFooterLine(state ViewState) string {
	var parts []string
	switch {
	case state.LoadingMore:
		parts = append(parts, r.styles.StatusLoading.Render(state.Spinner+" Loading more..."))
	case state.LoadMoreAvailable:
		parts = append(parts, r.styles.LoadMore.Render("m  load more"))
	case state.Phase == "debouncing":
		parts = append(parts, r.styles.Dim.Render("typing..."))
	}
	if state.Notice != "" {
		style := r.styles.NoticeError
		if state.NoticeLevel == NoticeWarning {
			style = r.styles.NoticeWarning
		}
		parts = append(parts, style.Render(state.Notice))
	}
	if state.StatusMessage != "" {
		parts = append(parts, r.styles.Status.Render(state.StatusMessage))
	}
	return strings.Join(parts, "  ")
}
