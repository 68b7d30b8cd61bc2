package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/thrombe/kolekk/constant"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// fingerprinted presents a Chrome TLS ClientHello. It speaks h2 first and
// falls back to http/1.1 when the h2 round trip fails and the request can be replayed.
type fingerprinted struct {
	h2 *http2.Transport
	h1 *http.Transport
}

var (
	fingerprintOnce   sync.Once
	fingerprintClient *http.Client
)

// Fingerprinted returns a client whose TLS handshake looks like a desktop browser.
// Scripted catalogs that scrape sites behind bot protection use it.
func Fingerprinted() *http.Client {
	fingerprintOnce.Do(func() {
		fingerprintClient = &http.Client{
			Timeout: Client.Timeout,
			Transport: &fingerprinted{
				h2: &http2.Transport{
					DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
						return dialChrome(ctx, network, addr, nil)
					},
				},
				h1: &http.Transport{
					DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
						return dialChrome(ctx, network, addr, []string{"http/1.1"})
					},
				},
			},
		}
	})
	return fingerprintClient
}

func (f *fingerprinted) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", constant.BrowserUserAgent)
	}

	if req.URL.Scheme != "https" {
		return f.h1.RoundTrip(req)
	}

	resp, err := f.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, err
		}
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, bodyErr
		}
		retry.Body = body
	}
	return f.h1.RoundTrip(retry)
}

func dialChrome(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake with %s: %w", host, err)
	}
	return tlsConn, nil
}
