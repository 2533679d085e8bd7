package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"orderscope/internal/history"
)

// noticeTTL is how long an inline notice stays on screen
const noticeTTL = 3 * time.Second

// debounce returns a command that reports the end of the quiet period for tag
func (m *Model) debounce(tag uint64) tea.Cmd {
	return tea.Tick(m.controller.DebounceDelay(), func(time.Time) tea.Msg {
		return debounceMsg{tag: tag}
	})
}

// search returns a command that runs a filter-mode request
func (m *Model) search(req history.SearchRequest) tea.Cmd {
	ctx := m.ctx
	source := m.source
	return func() tea.Msg {
		list, err := source.SearchOrders(ctx, req.Options())
		return searchResultMsg{req: req, list: list, err: err}
	}
}

// loadMore returns a command that fetches the next page of orders
func (m *Model) loadMore(req history.LoadMoreRequest) tea.Cmd {
	ctx := m.ctx
	source := m.source
	return func() tea.Msg {
		list, err := source.ListOrders(ctx, req.Options())
		return loadMoreResultMsg{req: req, list: list, err: err}
	}
}

// settle waits for appended orders to be laid out before scrolling to them
func (m *Model) settle(count int) tea.Cmd {
	delay := m.settleDelay
	if delay <= 0 {
		return func() tea.Msg { return settledMsg{count: count} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return settledMsg{count: count}
	})
}

// clearNotice returns a command that removes the notice with id once it has been shown
func clearNotice(id uint64) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

// clearStatus returns a command that clears the status bar later
func clearStatus() tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// fetchDetail returns a command that loads one order with all its lines
func (m *Model) fetchDetail(code string) tea.Cmd {
	ctx := m.ctx
	source := m.source
	return func() tea.Msg {
		detail, err := source.OrderDetail(ctx, code)
		return detailMsg{code: code, detail: detail, err: err}
	}
}

// showDetailPager returns a command that shows rendered order detail using ov pager
func (m *Model) showDetailPager(code, content string) tea.Cmd {
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.ShowInPager(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return detailPagerMsg{code: code, content: content, err: err}
	}
}

// showHelpPager returns a command that shows help using ov pager
func (m *Model) showHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.ShowInPager(helpContent)

		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}
