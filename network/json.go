package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetJSON fetches url and decodes the body into v.
func GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	return sendJSON(ctx, http.MethodGet, url, header, nil, v)
}

// PostJSON encodes body, posts it to url and decodes the answer into v.
// A nil v discards the answer.
func PostJSON(ctx context.Context, url string, header http.Header, body, v any) error {
	return sendJSON(ctx, http.MethodPost, url, header, body, v)
}

func sendJSON(ctx context.Context, method, url string, header http.Header, body, v any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	for k, values := range header {
		for _, value := range values {
			req.Header.Add(k, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Redacted(), err)
	}
	return nil
}
