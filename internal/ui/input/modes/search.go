package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"orderscope/internal/ui/input/types"
)

type SearchMode struct {
	TextInputMode
}

func NewSearchMode(keys types.KeyMap, ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Order code: ", keys, ti),
	}
}
