package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"orderscope/internal/ui/input/modes"
	"orderscope/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	keys        types.KeyMap
	textInput   *textinput.Model // search field, shared with the view
}

func New(keys types.KeyMap) *Handler {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "look for an order by code"
	ti.CharLimit = 64

	h := &Handler{
		currentMode: types.ModeNormal,
		keys:        keys,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode(keys)
	h.modes[types.ModeSearch] = modes.NewSearchMode(keys, h.textInput)

	return h
}

// HandleKey routes a key to the current mode. Keys the search mode does not
// claim edit the field; an edit that changes the text yields an
// UpdateTextAction.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		switch a := action.(type) {
		case types.ChangeModeAction:
			allActions = append(allActions, h.modes[h.currentMode].Exit(ctx)...)

			oldMode := h.currentMode
			h.currentMode = a.Mode
			if next := h.modes[h.currentMode]; next != nil {
				allActions = append(allActions, next.Enter(ctx)...)
			}

			if h.isTextMode(h.currentMode) {
				cmd = h.textInput.Focus()
			} else if h.isTextMode(oldMode) {
				h.textInput.Blur()
			}
		case types.ClearTextAction:
			if h.textInput.Value() != "" {
				h.textInput.Reset()
				allActions = append(allActions, types.UpdateTextAction{Text: ""})
			}
		default:
			allActions = append(allActions, action)
		}
	}

	if h.isTextMode(h.currentMode) && !consumed {
		before := h.textInput.Value()
		*h.textInput, cmd = h.textInput.Update(msg)
		if after := h.textInput.Value(); after != before {
			allActions = append(allActions, types.UpdateTextAction{Text: after})
		}
	}

	return allActions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// ModeName returns the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.currentMode]; m != nil {
		return m.Name()
	}
	return ""
}

// Prompt returns the prompt of the current text mode, if any
func (h *Handler) Prompt() string {
	if m, ok := h.modes[h.currentMode].(*modes.SearchMode); ok {
		return m.Prompt()
	}
	return ""
}

// TextInput returns the search field
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

// Update handles non-keyboard messages for the text input (cursor blink)
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
