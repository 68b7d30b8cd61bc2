// Package network holds the HTTP plumbing shared by every remote catalog client.
//
// Requests go through a per-host circuit breaker, so a catalog that keeps
// failing is short-circuited instead of stalling every keystroke.
package network

import (
	"net/http"
	"time"

	"github.com/thrombe/kolekk/constant"
)

// Client is the HTTP client shared by all remote catalogs.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// SetTimeout changes the per-request timeout of Client.
func SetTimeout(d time.Duration) {
	if d > 0 {
		Client.Timeout = d
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

func setDefaultHeaders(req *http.Request) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}
