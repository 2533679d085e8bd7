package viewmodels

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// InputMode represents the different input modes
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeSearch
)

// InputTransformer handles input mode transformations
type InputTransformer struct {
	mode      InputMode
	prompt    string
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer(textInput textinput.Model) *InputTransformer {
	return &InputTransformer{
		mode:      InputModeNormal,
		textInput: textInput,
	}
}

// SetMode sets the current input mode and the prompt shown before the field
func (it *InputTransformer) SetMode(mode InputMode, prompt string) {
	it.mode = mode
	it.prompt = prompt
}

// Focused reports whether the search field has focus
func (it *InputTransformer) Focused() bool {
	return it.mode == InputModeSearch
}

// Prompt returns the prompt of the focused field
func (it *InputTransformer) Prompt() string {
	return it.prompt
}

// GetInputText returns the rendered search field, or "" outside search mode
func (it *InputTransformer) GetInputText() string {
	if it.mode == InputModeNormal {
		return ""
	}
	return it.textInput.View()
}

