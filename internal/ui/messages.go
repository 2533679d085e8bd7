package ui

import (
	"orderscope/internal/domain"
	"orderscope/internal/history"
	"orderscope/internal/storefront"
)

// debounceMsg is delivered when the quiet period after a keystroke ends
type debounceMsg struct {
	tag uint64
}

// searchResultMsg carries the response to a filter-mode request
type searchResultMsg struct {
	req  history.SearchRequest
	list storefront.OrderList
	err  error
}

// loadMoreResultMsg carries the response to a load-more request
type loadMoreResultMsg struct {
	req  history.LoadMoreRequest
	list storefront.OrderList
	err  error
}

// settledMsg is sent once appended orders have been laid out. count is the
// number of orders at the time of the append.
type settledMsg struct {
	count int
}

// clearNoticeMsg removes an inline notice after it has been shown for a while
type clearNoticeMsg struct {
	id uint64
}

// clearStatusMsg clears the status bar message
type clearStatusMsg struct{}

// detailMsg contains a fetched order for the detail popup or pager
type detailMsg struct {
	code   string
	detail domain.OrderDetail
	err    error
}

// detailPagerMsg contains the result of showing an order in the pager
type detailPagerMsg struct {
	code    string
	content string
	err     error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
