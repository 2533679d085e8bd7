// Package history holds the order history search and pagination state.
//
// The Controller is a plain state machine: the UI feeds it keystrokes, timer
// ticks, user actions and responses, and it answers with the requests to
// issue. It never performs I/O, so it is only ever touched from the UI loop.
package history

import (
	"fmt"
	"time"

	"orderscope/internal/domain"
	"orderscope/internal/storefront"
)

// DefaultPageSize is the number of orders fetched per page
const DefaultPageSize = 4

// Publisher receives the controller's domain events
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// Phase is the coarse state shown in the status line
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseFetching
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseFetching:
		return "fetching"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// SearchRequest is a filter-mode fetch
type SearchRequest struct {
	Seq   uint64
	Query string
	Skip  int
	Take  int
}

// Options converts the request for the shop client
func (r SearchRequest) Options() storefront.SearchOptions {
	return storefront.SearchOptions{CodeContains: r.Query, Skip: r.Skip, Take: r.Take}
}

// LoadMoreRequest is a load-more fetch
type LoadMoreRequest struct {
	Epoch uint64
	Skip  int
	Take  int
}

// Options converts the request for the shop client. Placed orders only, to
// line up with the initial snapshot the offsets are counted from.
func (r LoadMoreRequest) Options() storefront.ListOptions {
	return storefront.ListOptions{
		Skip:              r.Skip,
		Take:              r.Take,
		SortCreatedAtDesc: true,
		ExcludeActive:     true,
	}
}

// NoticeKind classifies inline notices
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeError
	NoticeSignIn
)

// Notice is a transient inline message. ID lets a delayed clear skip a
// notice that was replaced in the meantime.
type Notice struct {
	ID   uint64
	Kind NoticeKind
	Text string
}

// Config tunes the controller
type Config struct {
	PageSize int
	Debounce time.Duration
}

// Controller owns the query, the visible orders and the pagination cursor
type Controller struct {
	pageSize  int
	debouncer *Debouncer
	publisher Publisher

	snapshot []domain.OrderSummary // first page as loaded at start-up

	query       string
	results     []domain.OrderSummary
	total       int  // totalItems of the unfiltered list, refreshed by load-more
	cursor      int  // pages loaded, starts at 1
	loading     bool // a search is outstanding
	loadingMore bool // a load-more is outstanding

	seq   uint64 // latest issued search; bumped again when the query is cleared
	epoch uint64 // bumped whenever results are replaced wholesale

	notice   Notice
	noticeID uint64
}

// NewController creates a controller showing initial as the snapshot
func NewController(initial storefront.OrderList, cfg Config, publisher Publisher) *Controller {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	snapshot := append([]domain.OrderSummary(nil), initial.Items...)
	return &Controller{
		pageSize:  pageSize,
		debouncer: NewDebouncer(cfg.Debounce),
		publisher: publisher,
		snapshot:  snapshot,
		results:   append([]domain.OrderSummary(nil), snapshot...),
		total:     initial.TotalItems,
		cursor:    1,
	}
}

func (c *Controller) publish(event domain.DomainEvent) {
	if c.publisher != nil {
		c.publisher.Publish(event)
	}
}

// Query returns the current search text
func (c *Controller) Query() string { return c.query }

// Results returns the visible orders. Callers must not modify the slice.
func (c *Controller) Results() []domain.OrderSummary { return c.results }

// Total returns the total number of placed orders last reported by the shop
func (c *Controller) Total() int { return c.total }

// Cursor returns the number of pages loaded
func (c *Controller) Cursor() int { return c.cursor }

// PageSize returns the page size
func (c *Controller) PageSize() int { return c.pageSize }

// DebounceDelay returns the debounce delay
func (c *Controller) DebounceDelay() time.Duration { return c.debouncer.Delay() }

// Loading reports whether a search is outstanding
func (c *Controller) Loading() bool { return c.loading }

// LoadingMore reports whether a load-more is outstanding
func (c *Controller) LoadingMore() bool { return c.loadingMore }

// Notice returns the current inline notice; Kind is NoticeNone when there is none
func (c *Controller) Notice() Notice { return c.notice }

// HasMore reports whether the shop holds orders beyond the visible ones
func (c *Controller) HasMore() bool {
	return c.total > len(c.results)
}

// LoadMoreAvailable reports whether the load-more control is offered
func (c *Controller) LoadMoreAvailable() bool {
	return c.query == "" && c.HasMore()
}

// Phase summarises where the search is
func (c *Controller) Phase() Phase {
	switch {
	case c.loading:
		return PhaseFetching
	case c.debouncer.Pending():
		return PhaseDebouncing
	case c.query != "" && c.seq > 0:
		return PhaseSettled
	default:
		return PhaseIdle
	}
}

// SetQuery records an edit of the search field. When it returns true the
// caller must call DebounceElapsed with tag after DebounceDelay. An empty
// query restores the snapshot immediately and schedules nothing.
func (c *Controller) SetQuery(q string) (tag uint64, schedule bool) {
	if q == c.query {
		return 0, false
	}
	c.query = q

	if q == "" {
		c.debouncer.Cancel()
		c.seq++ // responses to searches issued before the clear are stale
		c.loading = false
		c.results = append([]domain.OrderSummary(nil), c.snapshot...)
		c.epoch++
		c.publish(domain.ResultsReplacedEvent{Seq: c.seq, Count: len(c.results), Authenticated: true})
		return 0, false
	}

	return c.debouncer.Trigger(), true
}

// DebounceElapsed is called when the timer for tag fires. It returns the
// search to issue, or false when tag was superseded.
func (c *Controller) DebounceElapsed(tag uint64) (SearchRequest, bool) {
	if !c.debouncer.Fire(tag) || c.query == "" {
		return SearchRequest{}, false
	}
	return c.issueSearch(), true
}

// Refresh re-issues the current search without waiting for the debounce
func (c *Controller) Refresh() (SearchRequest, bool) {
	if c.query == "" {
		return SearchRequest{}, false
	}
	c.debouncer.Cancel()
	return c.issueSearch(), true
}

func (c *Controller) issueSearch() SearchRequest {
	c.seq++
	c.loading = true
	req := SearchRequest{
		Seq:   c.seq,
		Query: c.query,
		Skip:  c.pageSize * (c.cursor - 1),
		Take:  c.pageSize * c.cursor,
	}
	c.publish(domain.SearchIssuedEvent{Seq: req.Seq, Query: req.Query, Skip: req.Skip, Take: req.Take})
	return req
}

// ApplySearch applies the outcome of req. It returns false when the response
// was stale and nothing changed.
func (c *Controller) ApplySearch(req SearchRequest, list storefront.OrderList, err error) bool {
	if req.Seq != c.seq {
		c.publish(domain.StaleResponseDiscardedEvent{Mode: domain.FetchModeFilter, Seq: req.Seq})
		return false
	}
	c.loading = false

	if err != nil {
		c.setNotice(NoticeError, fmt.Sprintf("search failed: %v", err))
		c.publish(domain.FetchFailedEvent{Mode: domain.FetchModeFilter, Err: err})
		return true
	}

	if list.Authenticated {
		c.results = append([]domain.OrderSummary(nil), list.Items...)
	} else {
		c.results = []domain.OrderSummary{}
	}
	c.epoch++
	c.publish(domain.ResultsReplacedEvent{
		Seq:           req.Seq,
		Query:         req.Query,
		Count:         len(c.results),
		Authenticated: list.Authenticated,
	})
	return true
}

// RequestLoadMore returns the next page request, or false when load-more is
// not offered or one is already outstanding.
func (c *Controller) RequestLoadMore() (LoadMoreRequest, bool) {
	if c.loadingMore || !c.LoadMoreAvailable() {
		return LoadMoreRequest{}, false
	}
	c.loadingMore = true
	return LoadMoreRequest{
		Epoch: c.epoch,
		Skip:  len(c.results),
		Take:  c.pageSize,
	}, true
}

// ApplyLoadMore applies the outcome of req. It returns true when orders were
// appended, after which the caller scrolls the results to the bottom.
func (c *Controller) ApplyLoadMore(req LoadMoreRequest, list storefront.OrderList, err error) bool {
	c.loadingMore = false

	if req.Epoch != c.epoch {
		c.publish(domain.StaleResponseDiscardedEvent{Mode: domain.FetchModeLoadMore, Seq: req.Epoch})
		return false
	}
	if err != nil {
		c.setNotice(NoticeError, fmt.Sprintf("loading more orders failed: %v", err))
		c.publish(domain.FetchFailedEvent{Mode: domain.FetchModeLoadMore, Err: err})
		return false
	}
	if !list.Authenticated {
		c.setNotice(NoticeSignIn, "sign-in required to load more orders")
		c.publish(domain.SignInRequiredEvent{Mode: domain.FetchModeLoadMore})
		return false
	}

	c.results = append(c.results, list.Items...)
	c.cursor++
	c.total = list.TotalItems
	c.publish(domain.ResultsAppendedEvent{Added: len(list.Items), Total: c.total, Page: c.cursor})
	return true
}

func (c *Controller) setNotice(kind NoticeKind, text string) {
	c.noticeID++
	c.notice = Notice{ID: c.noticeID, Kind: kind, Text: text}
}

// ClearNotice removes the notice if it is still the one with id
func (c *Controller) ClearNotice(id uint64) {
	if c.notice.ID == id {
		c.notice = Notice{}
	}
}
