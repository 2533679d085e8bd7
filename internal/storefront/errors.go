package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrSignInRequired is returned when the shop API has no active customer
	// for the session and the caller cannot continue without one.
	ErrSignInRequired = errors.New("sign-in required")

	// ErrCircuitOpen is returned while the circuit breaker rejects requests.
	ErrCircuitOpen = errors.New("shop API unavailable (circuit open)")

	// ErrOrderNotFound is returned by OrderDetail when no order has the code.
	ErrOrderNotFound = errors.New("order not found")
)

// HTTPError is a non-2xx response from the shop API
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: shop API returned %d %s", e.Operation, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: shop API returned %d: %s", e.Operation, e.StatusCode, body)
}

// Temporary reports whether retrying later may succeed
func (e *HTTPError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// GraphQLError carries the errors[] array of a GraphQL response
type GraphQLError struct {
	Operation string
	Messages  []string
	Codes     []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

// HasCode reports whether any of the errors carries the extension code
func (e *GraphQLError) HasCode(code string) bool {
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// IsForbidden reports whether err means the session may not read customer data
func IsForbidden(err error) bool {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.HasCode("FORBIDDEN") {
		return true
	}
	var httpErr *HTTPError
	return errors.As(err, &httpErr) &&
		(httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden)
}
