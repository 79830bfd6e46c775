package linear

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/h0rv/linbridge/internal/apperr"
)

// rateLimitedCode is the GraphQL error code Linear uses when throttling.
const rateLimitedCode = "RATELIMITED"

// Linear reports the reset of the request budget as epoch milliseconds.
const requestsResetHeader = "X-RateLimit-Requests-Reset"

// rateLimitTransport turns throttled responses into *apperr.RateLimitError
// so the hint survives the GraphQL client, which only keeps error messages.
type rateLimitTransport struct {
	base http.RoundTripper
	now  func() time.Time
}

// NewRateLimitTransport wraps base (http.DefaultTransport when nil).
func NewRateLimitTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &rateLimitTransport{base: base, now: time.Now}
}

// RoundTrip implements http.RoundTripper.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, t.rateLimitError(resp, nil)
	case http.StatusBadRequest:
		// Linear answers throttled GraphQL calls with 400 and an error code
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("reading response body: %w", readErr)
		}
		if bytes.Contains(body, []byte(rateLimitedCode)) {
			return nil, t.rateLimitError(resp, body)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return resp, nil
	default:
		return resp, nil
	}
}

func (t *rateLimitTransport) rateLimitError(resp *http.Response, body []byte) error {
	if body == nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}

	cause := fmt.Errorf("linear API returned %s", resp.Status)
	if msg := strings.TrimSpace(string(body)); msg != "" {
		cause = fmt.Errorf("linear API returned %s: %s", resp.Status, msg)
	}

	return &apperr.RateLimitError{
		RetryAfter: retryAfter(resp.Header, t.now()),
		Err:        cause,
	}
}

// retryAfter reads the wait hint from Retry-After (seconds or HTTP date),
// falling back to Linear's request-budget reset time.
func retryAfter(h http.Header, now time.Time) time.Duration {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		if at, err := http.ParseTime(v); err == nil {
			if d := at.Sub(now); d > 0 {
				return d
			}
		}
	}

	if v := strings.TrimSpace(h.Get(requestsResetHeader)); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.UnixMilli(ms).Sub(now); d > 0 {
				return d
			}
		}
	}

	return 0
}
