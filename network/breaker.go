package network

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"github.com/thrombe/kolekk/log"
)

// ErrStatus matches every *StatusError through errors.Is.
var ErrStatus = errors.New("unexpected status")

// StatusError is returned when a catalog answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

var (
	breakersMu sync.Mutex
	breakers   = make(map[string]*gobreaker.CircuitBreaker)
)

func breakerFor(host string) *gobreaker.CircuitBreaker {
	breakersMu.Lock()
	defer breakersMu.Unlock()

	if cb, ok := breakers[host]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	breakers[host] = cb
	return cb
}

// Do sends req with Client through the breaker of req's host.
// Transport failures and 5xx answers count against the breaker; 4xx do not.
// The caller closes the body of a successful response.
func Do(req *http.Request) (*http.Response, error) {
	setDefaultHeaders(req)

	out, err := breakerFor(req.URL.Host).Execute(func() (any, error) {
		resp, err := Client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			_ = resp.Body.Close()
			return nil, &StatusError{Code: resp.StatusCode, URL: req.URL.Redacted()}
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	resp := out.(*http.Response)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: req.URL.Redacted()}
	}
	return resp, nil
}
