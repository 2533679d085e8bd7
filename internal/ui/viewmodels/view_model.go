package viewmodels

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"

	"orderscope/internal/history"
	"orderscope/internal/ui/input/types"
	"orderscope/internal/ui/state"
	"orderscope/internal/ui/views"
)

// ViewModel transforms application state into view-ready data
type ViewModel struct {
	state            *state.AppState
	controller       *history.Controller
	keys             types.KeyMap
	width            int
	height           int
	help             help.Model
	spinner          string
	list             string
	helpContent      string
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState, controller *history.Controller, keys types.KeyMap, textInput textinput.Model) *ViewModel {
	return &ViewModel{
		state:            appState,
		controller:       controller,
		keys:             keys,
		help:             help.New(),
		inputTransformer: NewInputTransformer(textInput),
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
	vm.help.Width = width
}

// SetInputMode sets the current input mode
func (vm *ViewModel) SetInputMode(mode InputMode, prompt string) {
	vm.inputTransformer.SetMode(mode, prompt)
}

// UpdateTextInput updates the text input model
func (vm *ViewModel) UpdateTextInput(textInput textinput.Model) {
	vm.inputTransformer.textInput = textInput
}

// SetSpinner sets the current spinner frame
func (vm *ViewModel) SetSpinner(frame string) {
	vm.spinner = frame
}

// SetList sets the rendered results viewport
func (vm *ViewModel) SetList(list string) {
	vm.list = list
}

// SetHelpContent sets the text of the help popup
func (vm *ViewModel) SetHelpContent(content string) {
	vm.helpContent = content
}

// BuildViewState creates a ViewState for rendering
func (vm *ViewModel) BuildViewState() views.ViewState {
	c := vm.controller
	notice := c.Notice()

	var level views.NoticeLevel
	switch notice.Kind {
	case history.NoticeError:
		level = views.NoticeError
	case history.NoticeSignIn:
		level = views.NoticeWarning
	}

	keys := vm.keys
	keys.LoadMore.SetEnabled(c.LoadMoreAvailable())
	helpView := vm.help.ShortHelpView(keys.ShortHelp())
	if vm.inputTransformer.Focused() {
		helpView = vm.help.ShortHelpView(keys.SearchHelp())
	}

	return views.ViewState{
		Width:             vm.width,
		Height:            vm.height,
		SearchFocused:     vm.inputTransformer.Focused(),
		SearchPrompt:      vm.inputTransformer.Prompt(),
		SearchField:       vm.inputTransformer.GetInputText(),
		Query:             c.Query(),
		Loading:           c.Loading(),
		LoadingMore:       c.LoadingMore(),
		Spinner:           vm.spinner,
		Phase:             c.Phase().String(),
		List:              vm.list,
		ResultCount:       len(c.Results()),
		TotalItems:        c.Total(),
		Page:              c.Cursor(),
		LoadMoreAvailable: c.LoadMoreAvailable(),
		Notice:            notice.Text,
		NoticeLevel:       level,
		StatusMessage:     vm.state.StatusMessage,
		HelpView:          helpView,
		ShowHelp:          vm.state.ShowHelp,
		HelpContent:       vm.helpContent,
		ShowDetail:        vm.state.ShowDetail,
		DetailContent:     vm.state.DetailContent,
	}
}
