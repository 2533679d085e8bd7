package state

// AppState contains the UI state that is not owned by the order history
// controller. The controller keeps the query, the orders and pagination.
type AppState struct {
	// Selection state
	SelectedIndex int // highlighted order

	// Popups
	ShowHelp      bool
	ShowDetail    bool   // in-app detail popup, used when the pager is unavailable
	DetailContent string // rendered order detail
	OpeningDetail string // code of the order whose detail is being fetched

	// UI state
	StatusMessage string // status bar message
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{}
}

// Selection operations

// MoveSelection moves the selection by delta within count items
func (s *AppState) MoveSelection(delta, count int) {
	s.SelectedIndex += delta
	s.ClampSelection(count)
}

// SelectLast moves the selection to the last of count items
func (s *AppState) SelectLast(count int) {
	s.SelectedIndex = count - 1
	s.ClampSelection(count)
}

// ClampSelection keeps the selection inside a list of count items
func (s *AppState) ClampSelection(count int) {
	if s.SelectedIndex >= count {
		s.SelectedIndex = count - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}

// Popup operations

// OpenDetail shows content in the detail popup
func (s *AppState) OpenDetail(content string) {
	s.ShowDetail = true
	s.DetailContent = content
}

// CloseDetail hides the detail popup
func (s *AppState) CloseDetail() {
	s.ShowDetail = false
	s.DetailContent = ""
}
