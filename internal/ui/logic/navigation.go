package logic

// Navigator keeps the selected order card inside the results viewport.
// Cards have different heights, so positions are tracked as line offsets.
type Navigator struct {
	offsets        []int // first line of each card
	totalLines     int
	viewportHeight int
	viewportOffset int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(offsets []int, totalLines, viewportHeight, viewportOffset int) {
	n.offsets = offsets
	n.totalLines = totalLines
	n.viewportHeight = viewportHeight
	n.viewportOffset = viewportOffset
}

// GetMaxIndex returns the maximum selectable index
func (n *Navigator) GetMaxIndex() int {
	return len(n.offsets) - 1
}

// cardSpan returns the first and last line of card i
func (n *Navigator) cardSpan(i int) (int, int) {
	start := n.offsets[i]
	end := n.totalLines - 1
	if i+1 < len(n.offsets) {
		// one blank line separates cards
		end = n.offsets[i+1] - 2
	}
	if end < start {
		end = start
	}
	return start, end
}

// SetSelectedIndex clamps index and scrolls just enough to show the card.
// It returns the clamped index and the new viewport offset.
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	if len(n.offsets) == 0 {
		n.viewportOffset = 0
		return 0, 0
	}
	if index < 0 {
		index = 0
	}
	if index > n.GetMaxIndex() {
		index = n.GetMaxIndex()
	}

	start, end := n.cardSpan(index)
	if start < n.viewportOffset {
		n.viewportOffset = start
	} else if end >= n.viewportOffset+n.viewportHeight {
		n.viewportOffset = end - n.viewportHeight + 1
		// a card taller than the viewport shows its top
		if n.viewportOffset > start {
			n.viewportOffset = start
		}
	}
	n.clampOffset()
	return index, n.viewportOffset
}

// PageStep returns how many cards a page up or down moves from index
func (n *Navigator) PageStep(index int, down bool) int {
	if len(n.offsets) == 0 || n.viewportHeight <= 0 {
		return 1
	}
	if index < 0 || index > n.GetMaxIndex() {
		return 1
	}
	from := n.offsets[index]
	steps := 0
	for i := index; ; {
		if down {
			i++
		} else {
			i--
		}
		if i < 0 || i > n.GetMaxIndex() {
			break
		}
		dist := from - n.offsets[i]
		if down {
			dist = -dist
		}
		if dist >= n.viewportHeight {
			break
		}
		steps++
	}
	if steps < 1 {
		steps = 1
	}
	return steps
}

func (n *Navigator) clampOffset() {
	maxOffset := n.totalLines - n.viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
