package handlers

import (
	"context"
	"log/slog"
	"sync"

	"orderscope/internal/domain"
	"orderscope/internal/eventbus"
)

// EventHandler writes the order history events to the log. It runs on the
// event bus goroutine and never touches UI state.
type EventHandler struct {
	mu     sync.Mutex
	logger *slog.Logger
	counts map[eventbus.EventType]int
}

// NewEventHandler creates a new event handler
func NewEventHandler(logger *slog.Logger) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		logger: logger,
		counts: make(map[eventbus.EventType]int),
	}
}

// SetLogger replaces the logger used for events handled from now on
func (h *EventHandler) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	h.mu.Lock()
	h.logger = logger
	h.mu.Unlock()
}

// Register subscribes the handler to every history event and returns a
// function that removes the subscriptions
func (h *EventHandler) Register(bus eventbus.EventBus) func() {
	types := []eventbus.EventType{
		eventbus.EventSearchIssued,
		eventbus.EventResultsReplaced,
		eventbus.EventResultsAppended,
		eventbus.EventStaleResponseDiscarded,
		eventbus.EventFetchFailed,
		eventbus.EventSignInRequired,
		eventbus.EventConfigLoaded,
		eventbus.EventConfigSaved,
	}
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, bus.Subscribe(t, h.HandleEvent))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// HandleEvent logs one domain event
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) {
	h.mu.Lock()
	h.counts[event.Type()]++
	logger := h.logger
	h.mu.Unlock()

	level := slog.LevelInfo
	var attrs []slog.Attr

	switch e := event.(type) {
	case domain.SearchIssuedEvent:
		attrs = append(attrs,
			slog.Uint64("seq", e.Seq),
			slog.String("query", e.Query),
			slog.Int("skip", e.Skip),
			slog.Int("take", e.Take),
		)

	case domain.ResultsReplacedEvent:
		attrs = append(attrs,
			slog.Uint64("seq", e.Seq),
			slog.String("query", e.Query),
			slog.Int("count", e.Count),
			slog.Bool("authenticated", e.Authenticated),
		)

	case domain.ResultsAppendedEvent:
		attrs = append(attrs,
			slog.Int("added", e.Added),
			slog.Int("total", e.Total),
			slog.Int("page", e.Page),
		)

	case domain.StaleResponseDiscardedEvent:
		level = slog.LevelDebug
		attrs = append(attrs, slog.String("mode", string(e.Mode)), slog.Uint64("seq", e.Seq))

	case domain.FetchFailedEvent:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("mode", string(e.Mode)), slog.Any("error", e.Err))

	case domain.SignInRequiredEvent:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("mode", string(e.Mode)))

	case domain.ConfigLoadedEvent:
		attrs = append(attrs, slog.String("path", e.Path), slog.String("api_url", e.APIURL))

	case domain.ConfigSavedEvent:
		attrs = append(attrs, slog.String("path", e.Path))
	}

	logger.LogAttrs(context.Background(), level, string(event.Type()), attrs...)
}

// Count returns how many events of type t were handled
func (h *EventHandler) Count(t eventbus.EventType) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[t]
}
