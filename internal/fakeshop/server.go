// Package fakeshop serves an in-memory shop API that answers the order
// operations orderscope sends. It backs the storefront tests, the e2e suite
// and cmd/fakeshop.
package fakeshop

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"orderscope/internal/domain"
	"orderscope/internal/logging"
)

// Path is where the GraphQL endpoint is mounted
const Path = "/shop-api"

// Order is a stored order. Active orders are the customer's open cart.
type Order struct {
	domain.OrderDetail
	Active bool
}

// Options configures a Server
type Options struct {
	// Token is the bearer token of the signed-in customer. Empty accepts any
	// request, including anonymous ones.
	Token   string
	Latency time.Duration
	Logger  *slog.Logger
}

// Server is the fake shop API
type Server struct {
	mu         sync.RWMutex
	orders     []Order
	token      string
	latency    time.Duration
	failStatus int
	calls      map[string]int
	logger     *slog.Logger
	router     chi.Router
}

// New creates a server holding orders
func New(orders []Order, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		orders:  append([]Order(nil), orders...),
		token:   opts.Token,
		latency: opts.Latency,
		calls:   make(map[string]int),
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post(Path, s.handleGraphQL)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetLatency delays every following response by d
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	s.latency = d
	s.mu.Unlock()
}

// SetFailStatus makes every following request fail with the HTTP status.
// Zero restores normal answers.
func (s *Server) SetFailStatus(status int) {
	s.mu.Lock()
	s.failStatus = status
	s.mu.Unlock()
}

// Calls returns how many requests of an operation were answered
func (s *Server) Calls(operation string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[operation]
}

type request struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

type listOptions struct {
	Skip   int `json:"skip"`
	Take   int `json:"take"`
	Sort   *struct {
		CreatedAt string `json:"createdAt"`
	} `json:"sort"`
	Filter *struct {
		Code *struct {
			Contains string `json:"contains"`
		} `json:"code"`
		Active *struct {
			Eq bool `json:"eq"`
		} `json:"active"`
	} `json:"filter"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "malformed request body", "BAD_USER_INPUT")
		return
	}

	s.mu.Lock()
	s.calls[req.OperationName]++
	latency, failStatus := s.latency, s.failStatus
	s.mu.Unlock()

	s.logger.Debug("fakeshop request",
		slog.String("operation", req.OperationName),
		slog.String("correlation_id", r.Header.Get("X-Correlation-ID")),
	)

	if !sleep(r.Context(), latency) {
		return
	}
	if failStatus != 0 {
		http.Error(w, http.StatusText(failStatus), failStatus)
		return
	}

	signedIn := s.authorized(r)
	switch req.OperationName {
	case "SearchOrders", "ListOrders":
		var vars struct {
			Options listOptions `json:"options"`
		}
		if len(req.Variables) > 0 {
			if err := json.Unmarshal(req.Variables, &vars); err != nil {
				writeErrors(w, http.StatusOK, "invalid variables", "BAD_USER_INPUT")
				return
			}
		}
		if !signedIn {
			writeData(w, map[string]any{"activeCustomer": nil})
			return
		}
		items, total := s.query(vars.Options)
		writeData(w, map[string]any{
			"activeCustomer": map[string]any{
				"id": "1",
				"orders": map[string]any{
					"totalItems": total,
					"items":      items,
				},
			},
		})
	case "OrderDetail":
		var vars struct {
			Code string `json:"code"`
		}
		if len(req.Variables) > 0 {
			if err := json.Unmarshal(req.Variables, &vars); err != nil {
				writeErrors(w, http.StatusOK, "invalid variables", "BAD_USER_INPUT")
				return
			}
		}
		if !signedIn {
			writeData(w, map[string]any{"activeCustomer": nil, "orderByCode": nil})
			return
		}
		var order any
		if o, ok := s.byCode(vars.Code); ok {
			order = encodeOrder(o)
		}
		writeData(w, map[string]any{
			"activeCustomer": map[string]any{"id": "1"},
			"orderByCode":    order,
		})
	default:
		writeErrors(w, http.StatusOK, "unknown operation "+req.OperationName, "GRAPHQL_VALIDATION_FAILED")
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.token
}

// query filters, sorts and pages the stored orders
func (s *Server) query(opts listOptions) ([]map[string]any, int) {
	s.mu.RLock()
	matched := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if opts.Filter != nil {
			if opts.Filter.Code != nil &&
				!strings.Contains(strings.ToLower(o.Code), strings.ToLower(opts.Filter.Code.Contains)) {
				continue
			}
			if opts.Filter.Active != nil && o.Active != opts.Filter.Active.Eq {
				continue
			}
		}
		matched = append(matched, o)
	}
	s.mu.RUnlock()

	desc := opts.Sort != nil && strings.EqualFold(opts.Sort.CreatedAt, "DESC")
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(max(opts.Skip, 0), total)
	end := total
	if opts.Take > 0 {
		end = min(start+opts.Take, total)
	}

	items := make([]map[string]any, 0, end-start)
	for _, o := range matched[start:end] {
		items = append(items, encodeOrder(o))
	}
	return items, total
}

func (s *Server) byCode(code string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.Code == code {
			return o, true
		}
	}
	return Order{}, false
}

// sleep waits d unless the request goes away first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func writeErrors(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]any{{
			"message":    message,
			"extensions": map[string]any{"code": code},
		}},
		"data": nil,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
