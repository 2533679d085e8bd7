package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// ClearTextAction empties the search field
type ClearTextAction struct{}

func (a ClearTextAction) Type() string { return "clear_text" }

// Order actions
type LoadMoreAction struct{}

func (a LoadMoreAction) Type() string { return "load_more" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type OpenDetailAction struct {
	Code string
}

func (a OpenDetailAction) Type() string { return "open_detail" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
