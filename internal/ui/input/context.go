package input

import (
	"orderscope/internal/history"
	"orderscope/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State      *state.AppState
	Controller *history.Controller
}

// SearchQuery returns the current search query
func (c *ModelContext) SearchQuery() string {
	return c.Controller.Query()
}

// CurrentOrderCode returns the code of the selected order, or "" when the list is empty
func (c *ModelContext) CurrentOrderCode() string {
	results := c.Controller.Results()
	i := c.State.SelectedIndex
	if i < 0 || i >= len(results) {
		return ""
	}
	return results[i].Code
}

// LoadMoreAvailable reports whether the load-more control is offered
func (c *ModelContext) LoadMoreAvailable() bool {
	return c.Controller.LoadMoreAvailable()
}
