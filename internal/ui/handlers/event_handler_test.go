package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderscope/internal/config"
	"orderscope/internal/domain"
	"orderscope/internal/eventbus"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if json.Unmarshal([]byte(line), &rec) == nil {
			out = append(out, rec)
		}
	}
	return out
}

func TestHandleEventLogsAttributes(t *testing.T) {
	var buf syncBuffer
	h := NewEventHandler(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	h.HandleEvent(domain.SearchIssuedEvent{Seq: 3, Query: "AB", Skip: 0, Take: 4})
	h.HandleEvent(domain.FetchFailedEvent{Mode: domain.FetchModeLoadMore, Err: errors.New("boom")})

	recs := buf.lines()
	require.Len(t, recs, 2)
	assert.Equal(t, "SearchIssued", recs[0]["msg"])
	assert.Equal(t, "AB", recs[0]["query"])
	assert.EqualValues(t, 3, recs[0]["seq"])
	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "load_more", recs[1]["mode"])
	assert.Equal(t, "boom", recs[1]["error"])

	assert.Equal(t, 1, h.Count(eventbus.EventSearchIssued))
	assert.Equal(t, 1, h.Count(eventbus.EventFetchFailed))
}

func TestRegisterReceivesBusEvents(t *testing.T) {
	bus := eventbus.New(slog.New(slog.NewTextHandler(&syncBuffer{}, nil)))
	t.Cleanup(bus.Close)

	h := NewEventHandler(slog.New(slog.NewJSONHandler(&syncBuffer{}, nil)))
	unregister := h.Register(bus)

	bus.Publish(domain.ResultsAppendedEvent{Added: 4, Total: 10, Page: 2})
	require.Eventually(t, func() bool {
		return h.Count(eventbus.EventResultsAppended) == 1
	}, 2*time.Second, 10*time.Millisecond)

	unregister()
	bus.Publish(domain.ResultsAppendedEvent{Added: 2, Total: 10, Page: 3})
	bus.Publish(domain.SearchIssuedEvent{Seq: 1})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, h.Count(eventbus.EventResultsAppended))
	assert.Equal(t, 0, h.Count(eventbus.EventSearchIssued))
}

func TestConfigLoadedReachesHandlerRegisteredFirst(t *testing.T) {
	bus := eventbus.New(slog.New(slog.NewTextHandler(&syncBuffer{}, nil)))
	t.Cleanup(bus.Close)

	var startup, file syncBuffer
	h := NewEventHandler(slog.New(slog.NewJSONHandler(&startup, nil)))
	defer h.Register(bus)()

	path := filepath.Join(t.TempDir(), config.FileName)
	_, err := config.NewConfigServiceWithBus(path, bus).Load()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(startup.lines()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, h.Count(eventbus.EventConfigLoaded))
	assert.Equal(t, path, startup.lines()[0]["path"])

	// Later events go to the replacement logger only
	h.SetLogger(slog.New(slog.NewJSONHandler(&file, nil)))
	bus.Publish(domain.ResultsAppendedEvent{Added: 4, Total: 8, Page: 2})
	require.Eventually(t, func() bool {
		return len(file.lines()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Len(t, startup.lines(), 1)
	assert.Equal(t, "ResultsAppended", file.lines()[0]["msg"])
}
