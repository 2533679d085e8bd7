package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"orderscope/internal/logging"
)

const (
	tracerName = "orderscope/storefront"

	// headers understood by Vendure-style shop APIs
	headerChannelToken  = "vendure-token"
	headerCorrelationID = "X-Correlation-ID"

	maxResponseBytes = 4 << 20
)

// Options configures a Client
type Options struct {
	Endpoint     string
	AuthToken    string
	ChannelToken string
	LanguageCode string
	Timeout      time.Duration // per request; 0 disables

	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *Metrics
	Breaker    BreakerSettings
}

// BreakerSettings tunes the circuit breaker guarding the shop API
type BreakerSettings struct {
	Name         string
	MaxRequests  uint32        // allowed while half-open
	Interval     time.Duration // closed-state count reset period
	OpenTimeout  time.Duration // time spent open before probing
	MinRequests  uint32        // minimum sample before tripping
	FailureRatio float64
}

// DefaultBreakerSettings returns conservative defaults for an interactive client
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "shop-api",
		MaxRequests:  1,
		Interval:     60 * time.Second,
		OpenTimeout:  15 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// Client talks GraphQL to the shop API over HTTP
type Client struct {
	endpoint     string
	authToken    string
	channelToken string
	httpClient   *http.Client
	timeout      time.Duration
	logger       *slog.Logger
	metrics      *Metrics
	breaker      *gobreaker.CircuitBreaker[[]byte]
	tracer       trace.Tracer
}

// New creates a shop API client
func New(opts Options) (*Client, error) {
	endpoint, err := url.Parse(opts.Endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid shop API endpoint %q", opts.Endpoint)
	}
	if opts.LanguageCode != "" {
		q := endpoint.Query()
		q.Set("languageCode", opts.LanguageCode)
		endpoint.RawQuery = q.Encode()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bs := opts.Breaker
	if bs.Name == "" {
		bs = DefaultBreakerSettings()
	}

	c := &Client{
		endpoint:     endpoint.String(),
		authToken:    opts.AuthToken,
		channelToken: opts.ChannelToken,
		httpClient:   httpClient,
		timeout:      opts.Timeout,
		logger:       logger,
		metrics:      opts.Metrics,
		tracer:       otel.Tracer(tracerName),
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        bs.Name,
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bs.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			c.metrics.setBreakerState(name, to)
		},
		// A 4xx says nothing about the API's health
		IsSuccessful: func(err error) bool {
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return !httpErr.Temporary()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	c.metrics.setBreakerState(bs.Name, gobreaker.StateClosed)

	return c, nil
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string `json:"message"`
		Extensions struct {
			Code string `json:"code"`
		} `json:"extensions"`
	} `json:"errors"`
}

// do runs one GraphQL operation and decodes its data into out
func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "shop."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", operation)),
	)
	start := time.Now()
	outcome := outcomeOK
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.String("orderscope.outcome", outcome))
		span.End()
		c.metrics.observe(operation, outcome, time.Since(start))
	}()

	correlationID := uuid.NewString()
	ctx = logging.WithCorrelationID(ctx, correlationID)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, OperationName: operation, Variables: variables})
	if err != nil {
		outcome = outcomeTransportError
		return fmt.Errorf("%s: encode request: %w", operation, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.post(ctx, operation, correlationID, payload)
	})
	if err != nil {
		var httpErr *HTTPError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			outcome = outcomeCircuitOpen
			err = fmt.Errorf("%s: %w", operation, ErrCircuitOpen)
		case errors.As(err, &httpErr) && IsForbidden(httpErr):
			outcome = outcomeUnauthenticated
		case errors.As(err, &httpErr):
			outcome = outcomeHTTPError
		default:
			outcome = outcomeTransportError
		}
		c.logger.Warn("shop request failed",
			slog.String("operation", operation),
			slog.String("correlation_id", correlationID),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		outcome = outcomeTransportError
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if len(resp.Errors) > 0 {
		outcome = outcomeGraphQLError
		gqlErr := &GraphQLError{Operation: operation}
		for _, e := range resp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
			if e.Extensions.Code != "" {
				gqlErr.Codes = append(gqlErr.Codes, e.Extensions.Code)
			}
		}
		if IsForbidden(gqlErr) {
			outcome = outcomeUnauthenticated
		}
		return gqlErr
	}
	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			outcome = outcomeTransportError
			return fmt.Errorf("%s: decode data: %w", operation, err)
		}
	}

	if signedOut(resp.Data) {
		outcome = outcomeUnauthenticated
	}

	c.logger.Debug("shop request",
		slog.String("operation", operation),
		slog.String("outcome", outcome),
		slog.String("correlation_id", logging.CorrelationIDFromContext(ctx)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// signedOut reports whether the response selected activeCustomer and got null
func signedOut(data json.RawMessage) bool {
	var fields map[string]any
	if len(data) == 0 || json.Unmarshal(data, &fields) != nil {
		return false
	}
	v, ok := fields["activeCustomer"]
	return ok && v == nil
}

func (c *Client) post(ctx context.Context, operation, correlationID string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerCorrelationID, correlationID)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.channelToken != "" {
		req.Header.Set(headerChannelToken, c.channelToken)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Operation: operation, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// BreakerState exposes the circuit breaker state for status display
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
