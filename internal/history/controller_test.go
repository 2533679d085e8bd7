package history

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderscope/internal/domain"
	"orderscope/internal/storefront"
)

type recorder struct {
	events []domain.DomainEvent
}

func (r *recorder) Publish(event domain.DomainEvent) {
	r.events = append(r.events, event)
}

func (r *recorder) types() []domain.EventType {
	out := make([]domain.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

func orders(prefix string, n int) []domain.OrderSummary {
	out := make([]domain.OrderSummary, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.OrderSummary{
			ID:   fmt.Sprintf("%s-%d", prefix, i),
			Code: fmt.Sprintf("%s%03d", prefix, i),
		})
	}
	return out
}

func page(items []domain.OrderSummary, total int) storefront.OrderList {
	return storefront.OrderList{Items: items, TotalItems: total, Authenticated: true}
}

func newController(t *testing.T, initial, total int) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := NewController(page(orders("INIT", initial), total), Config{PageSize: 4, Debounce: 500 * time.Millisecond}, rec)
	return c, rec
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(storefront.OrderList{}, Config{}, nil)

	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, DefaultDebounce, c.DebounceDelay())
	assert.Equal(t, 1, c.Cursor())
	assert.Empty(t, c.Results())
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.LoadMoreAvailable())
}

// Rapid keystrokes issue exactly one search, for the last value typed
func TestRapidTypingIssuesOneSearch(t *testing.T) {
	c, rec := newController(t, 4, 10)

	var tags []uint64
	for _, q := range []string{"A", "AB", "AB1", "AB12"} {
		tag, schedule := c.SetQuery(q)
		require.True(t, schedule)
		tags = append(tags, tag)
	}
	assert.Equal(t, PhaseDebouncing, c.Phase())

	var issued []SearchRequest
	for _, tag := range tags {
		if req, ok := c.DebounceElapsed(tag); ok {
			issued = append(issued, req)
		}
	}

	require.Len(t, issued, 1)
	assert.Equal(t, "AB12", issued[0].Query)
	assert.Equal(t, []domain.EventType{domain.EventSearchIssued}, rec.types())
}

func TestDebounceFiresOncePerTag(t *testing.T) {
	c, _ := newController(t, 4, 10)

	tag, _ := c.SetQuery("X")
	_, ok := c.DebounceElapsed(tag)
	require.True(t, ok)
	_, ok = c.DebounceElapsed(tag)
	assert.False(t, ok)
}

// Clearing the field restores the snapshot synchronously without a fetch
func TestClearingRestoresSnapshot(t *testing.T) {
	c, rec := newController(t, 4, 10)
	snapshot := append([]domain.OrderSummary(nil), c.Results()...)

	tag, _ := c.SetQuery("AB")
	req, ok := c.DebounceElapsed(tag)
	require.True(t, ok)
	require.True(t, c.ApplySearch(req, page(orders("HIT", 2), 2), nil))
	require.Len(t, c.Results(), 2)

	pendingTag, _ := c.SetQuery("ABC")
	_, schedule := c.SetQuery("")
	assert.False(t, schedule)

	assert.Equal(t, snapshot, c.Results())
	assert.False(t, c.Loading())
	assert.Equal(t, PhaseIdle, c.Phase())

	_, ok = c.DebounceElapsed(pendingTag)
	assert.False(t, ok, "pending search must be cancelled")
	assert.Equal(t, domain.EventResultsReplaced, rec.types()[len(rec.types())-1])
}

func TestClearingWhenAlreadyEmptyKeepsLoadedPages(t *testing.T) {
	c, _ := newController(t, 4, 10)

	req, ok := c.RequestLoadMore()
	require.True(t, ok)
	require.True(t, c.ApplyLoadMore(req, page(orders("MORE", 4), 10), nil))

	_, schedule := c.SetQuery("")
	assert.False(t, schedule)
	assert.Len(t, c.Results(), 8)
}

// Load-more appends and advances the cursor by one
func TestLoadMoreAppends(t *testing.T) {
	c, rec := newController(t, 4, 10)

	before := len(c.Results())
	req, ok := c.RequestLoadMore()
	require.True(t, ok)
	assert.Equal(t, 4, req.Skip)
	assert.Equal(t, 4, req.Take)
	assert.True(t, req.Options().SortCreatedAtDesc)

	items := orders("MORE", 4)
	require.True(t, c.ApplyLoadMore(req, page(items, 10), nil))

	assert.Len(t, c.Results(), before+len(items))
	assert.Equal(t, 2, c.Cursor())
	assert.Equal(t, items, c.Results()[before:])
	assert.True(t, c.LoadMoreAvailable(), "8 < 10")

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, domain.ResultsAppendedEvent{Added: 4, Total: 10, Page: 2}, last)
}

// The control is offered iff the total exceeds what is shown
func TestLoadMoreVisibility(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		total   int
		query   string
		want    bool
	}{
		{"more on server", 4, 10, "", true},
		{"everything shown", 4, 4, "", false},
		{"fewer than a page", 2, 2, "", false},
		{"search active", 4, 10, "AB", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newController(t, tt.initial, tt.total)
			c.SetQuery(tt.query)

			assert.Equal(t, tt.total > tt.initial, c.HasMore())
			assert.Equal(t, tt.want, c.LoadMoreAvailable())
			_, ok := c.RequestLoadMore()
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestLoadMoreHiddenOnceAllLoaded(t *testing.T) {
	c, _ := newController(t, 4, 6)

	req, ok := c.RequestLoadMore()
	require.True(t, ok)
	require.True(t, c.ApplyLoadMore(req, page(orders("MORE", 2), 6), nil))

	assert.False(t, c.LoadMoreAvailable())
	_, ok = c.RequestLoadMore()
	assert.False(t, ok)
}

// The same search twice yields the same orders
func TestRepeatedSearchIsIdempotent(t *testing.T) {
	c, _ := newController(t, 4, 10)
	hits := orders("HIT", 3)

	tag, _ := c.SetQuery("AB")
	req, _ := c.DebounceElapsed(tag)
	c.ApplySearch(req, page(hits, 3), nil)
	first := append([]domain.OrderSummary(nil), c.Results()...)

	again, ok := c.Refresh()
	require.True(t, ok)
	assert.Equal(t, req.Query, again.Query)
	assert.Equal(t, req.Skip, again.Skip)
	assert.Equal(t, req.Take, again.Take)
	c.ApplySearch(again, page(hits, 3), nil)

	assert.Equal(t, first, c.Results())
}

// Typing "AB12" and pausing issues one request and replaces the orders
func TestSearchReplacesResults(t *testing.T) {
	c, rec := newController(t, 4, 10)

	tag, _ := c.SetQuery("AB12")
	req, ok := c.DebounceElapsed(tag)
	require.True(t, ok)
	assert.Equal(t, SearchRequest{Seq: req.Seq, Query: "AB12", Skip: 0, Take: 4}, req)
	assert.Equal(t, storefront.SearchOptions{CodeContains: "AB12", Skip: 0, Take: 4}, req.Options())
	assert.True(t, c.Loading())
	assert.Equal(t, PhaseFetching, c.Phase())

	hits := orders("AB12", 2)
	require.True(t, c.ApplySearch(req, page(hits, 2), nil))

	assert.Equal(t, hits, c.Results())
	assert.False(t, c.Loading())
	assert.Equal(t, PhaseSettled, c.Phase())
	assert.Equal(t, []domain.EventType{domain.EventSearchIssued, domain.EventResultsReplaced}, rec.types())
}

// Initial 4 of 10, page size 4: load-more asks for skip=4 take=4
func TestLoadMoreScenario(t *testing.T) {
	c, _ := newController(t, 4, 10)

	req, ok := c.RequestLoadMore()
	require.True(t, ok)
	assert.Equal(t, storefront.ListOptions{Skip: 4, Take: 4, SortCreatedAtDesc: true, ExcludeActive: true}, req.Options())

	require.True(t, c.ApplyLoadMore(req, page(orders("MORE", 4), 10), nil))
	assert.Len(t, c.Results(), 8)
	assert.Equal(t, 2, c.Cursor())
	assert.True(t, c.LoadMoreAvailable())
}

// An unauthenticated search empties the list whatever was shown
func TestUnauthenticatedSearchEmptiesResults(t *testing.T) {
	c, rec := newController(t, 4, 10)

	tag, _ := c.SetQuery("AB")
	req, _ := c.DebounceElapsed(tag)
	require.True(t, c.ApplySearch(req, storefront.OrderList{Authenticated: false}, nil))

	assert.NotNil(t, c.Results())
	assert.Empty(t, c.Results())
	assert.False(t, c.Loading())
	last := rec.events[len(rec.events)-1].(domain.ResultsReplacedEvent)
	assert.False(t, last.Authenticated)
}

func TestFilterWindowFollowsCursor(t *testing.T) {
	c, _ := newController(t, 4, 20)

	req, _ := c.RequestLoadMore()
	c.ApplyLoadMore(req, page(orders("MORE", 4), 20), nil)
	require.Equal(t, 2, c.Cursor())

	tag, _ := c.SetQuery("AB")
	search, ok := c.DebounceElapsed(tag)
	require.True(t, ok)
	assert.Equal(t, 4, search.Skip)
	assert.Equal(t, 8, search.Take)

	// clearing does not reset the cursor
	c.SetQuery("")
	assert.Equal(t, 2, c.Cursor())
}

func TestStaleSearchResponseIsDiscarded(t *testing.T) {
	c, rec := newController(t, 4, 10)

	tag, _ := c.SetQuery("AB")
	slow, _ := c.DebounceElapsed(tag)
	tag, _ = c.SetQuery("AB1")
	fast, _ := c.DebounceElapsed(tag)

	fastHits := orders("AB1", 1)
	require.True(t, c.ApplySearch(fast, page(fastHits, 1), nil))
	assert.False(t, c.ApplySearch(slow, page(orders("AB", 5), 5), nil))

	assert.Equal(t, fastHits, c.Results())
	assert.Equal(t, domain.StaleResponseDiscardedEvent{Mode: domain.FetchModeFilter, Seq: slow.Seq}, rec.events[len(rec.events)-1])
}

func TestSearchResponseAfterClearIsDiscarded(t *testing.T) {
	c, _ := newController(t, 4, 10)
	snapshot := append([]domain.OrderSummary(nil), c.Results()...)

	tag, _ := c.SetQuery("AB")
	req, _ := c.DebounceElapsed(tag)
	c.SetQuery("")

	assert.False(t, c.ApplySearch(req, page(orders("AB", 2), 2), nil))
	assert.Equal(t, snapshot, c.Results())
	assert.False(t, c.Loading())
}

func TestStaleSearchKeepsLoadingUntilLatestArrives(t *testing.T) {
	c, _ := newController(t, 4, 10)

	tag, _ := c.SetQuery("A")
	first, _ := c.DebounceElapsed(tag)
	tag, _ = c.SetQuery("AB")
	second, _ := c.DebounceElapsed(tag)

	c.ApplySearch(first, page(nil, 0), nil)
	assert.True(t, c.Loading())
	c.ApplySearch(second, page(nil, 0), nil)
	assert.False(t, c.Loading())
}

func TestSearchFailureKeepsResults(t *testing.T) {
	c, rec := newController(t, 4, 10)
	before := append([]domain.OrderSummary(nil), c.Results()...)

	tag, _ := c.SetQuery("AB")
	req, _ := c.DebounceElapsed(tag)
	boom := errors.New("connection refused")
	require.True(t, c.ApplySearch(req, storefront.OrderList{}, boom))

	assert.Equal(t, before, c.Results())
	assert.False(t, c.Loading())
	notice := c.Notice()
	assert.Equal(t, NoticeError, notice.Kind)
	assert.Contains(t, notice.Text, "connection refused")

	failed := rec.events[len(rec.events)-1].(domain.FetchFailedEvent)
	assert.ErrorIs(t, failed.Err, boom)
	assert.Equal(t, domain.FetchModeFilter, failed.Mode)
}

func TestLoadMoreFailureKeepsResults(t *testing.T) {
	c, _ := newController(t, 4, 10)

	req, _ := c.RequestLoadMore()
	assert.False(t, c.ApplyLoadMore(req, storefront.OrderList{}, errors.New("timeout")))

	assert.Len(t, c.Results(), 4)
	assert.Equal(t, 1, c.Cursor())
	assert.False(t, c.LoadingMore())
	assert.Equal(t, NoticeError, c.Notice().Kind)

	_, ok := c.RequestLoadMore()
	assert.True(t, ok, "load-more can be retried")
}

func TestUnauthenticatedLoadMoreShowsNotice(t *testing.T) {
	c, rec := newController(t, 4, 10)

	req, _ := c.RequestLoadMore()
	assert.False(t, c.ApplyLoadMore(req, storefront.OrderList{Authenticated: false}, nil))

	assert.Len(t, c.Results(), 4)
	assert.Equal(t, 1, c.Cursor())
	assert.Equal(t, NoticeSignIn, c.Notice().Kind)
	assert.Equal(t, domain.SignInRequiredEvent{Mode: domain.FetchModeLoadMore}, rec.events[len(rec.events)-1])
}

func TestOneLoadMoreAtATime(t *testing.T) {
	c, _ := newController(t, 4, 20)

	req, ok := c.RequestLoadMore()
	require.True(t, ok)
	assert.True(t, c.LoadingMore())
	_, ok = c.RequestLoadMore()
	assert.False(t, ok)

	c.ApplyLoadMore(req, page(orders("MORE", 4), 20), nil)
	next, ok := c.RequestLoadMore()
	require.True(t, ok)
	assert.Equal(t, 8, next.Skip)
}

func TestLoadMoreAfterSearchIsDiscarded(t *testing.T) {
	c, _ := newController(t, 4, 10)

	req, _ := c.RequestLoadMore()
	tag, _ := c.SetQuery("AB")
	search, _ := c.DebounceElapsed(tag)
	c.ApplySearch(search, page(orders("AB", 1), 1), nil)

	assert.False(t, c.ApplyLoadMore(req, page(orders("MORE", 4), 10), nil))
	assert.Len(t, c.Results(), 1)
	assert.Equal(t, 1, c.Cursor())
}

func TestLoadMoreRefreshesTotal(t *testing.T) {
	c, _ := newController(t, 4, 8)

	req, _ := c.RequestLoadMore()
	c.ApplyLoadMore(req, page(orders("MORE", 4), 12), nil)

	assert.Equal(t, 12, c.Total())
	assert.True(t, c.LoadMoreAvailable())
}

func TestClearNoticeOnlyClearsMatchingID(t *testing.T) {
	c, _ := newController(t, 4, 10)

	req, _ := c.RequestLoadMore()
	c.ApplyLoadMore(req, storefront.OrderList{}, errors.New("first"))
	first := c.Notice()

	req, _ = c.RequestLoadMore()
	c.ApplyLoadMore(req, storefront.OrderList{}, errors.New("second"))
	second := c.Notice()

	c.ClearNotice(first.ID)
	assert.Equal(t, second, c.Notice())

	c.ClearNotice(second.ID)
	assert.Equal(t, NoticeNone, c.Notice().Kind)
}

func TestRefreshWithoutQuery(t *testing.T) {
	c, _ := newController(t, 4, 10)

	_, ok := c.Refresh()
	assert.False(t, ok)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "debouncing", PhaseDebouncing.String())
	assert.Equal(t, "fetching", PhaseFetching.String())
	assert.Equal(t, "settled", PhaseSettled.String())
}
