package custom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thrombe/kolekk/internal/cache"
	"github.com/thrombe/kolekk/network"
	lua "github.com/yuin/gopher-lua"
)

// registerTLSClient adds the http_tls module, an HTTP client with a browser TLS fingerprint.
//
//	http_tls.get(url [, headers])                       -> body
//	http_tls.request{method, url, headers, body, cache} -> {status, body, headers}
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

type tlsResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := tableToHeaders(L.OptTable(2, nil))

	resp, err := doTLSRequest(luaContext(L), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}
	if resp.Status >= http.StatusBadRequest {
		L.RaiseError("http_tls.get %s: status %d", url, resp.Status)
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := strings.ToUpper(getStringField(opts, "method", http.MethodGet))
	url := getStringField(opts, "url", "")
	body := getStringField(opts, "body", "")
	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	headers := http.Header{}
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = tableToHeaders(tbl)
	}

	shouldCache := lua.LVAsBool(opts.RawGetString("cache"))
	cacheKey := cache.GenerateKey(method, url, body)

	var resp tlsResponse
	if !shouldCache || !cache.Read(cacheKey, &resp) {
		fetched, err := doTLSRequest(luaContext(L), method, url, headers, body)
		if err != nil {
			L.RaiseError("http_tls.request failed: %s", err.Error())
			return 0
		}
		resp = fetched
		if shouldCache && resp.Status == http.StatusOK {
			_ = cache.Write(cacheKey, resp)
		}
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(resp.Status))
	L.SetField(result, "body", lua.LString(resp.Body))
	respHeaders := L.NewTable()
	for k, v := range resp.Headers {
		L.SetField(respHeaders, k, lua.LString(v))
	}
	L.SetField(result, "headers", respHeaders)
	L.Push(result)
	return 1
}

func getStringField(tbl *lua.LTable, key string, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

func tableToHeaders(tbl *lua.LTable) http.Header {
	headers := http.Header{}
	if tbl == nil {
		return headers
	}
	tbl.ForEach(func(k, v lua.LValue) {
		headers.Set(k.String(), v.String())
	})
	return headers
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func doTLSRequest(ctx context.Context, method, url string, headers http.Header, body string) (tlsResponse, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return tlsResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, values := range headers {
		req.Header[k] = values
	}

	resp, err := network.Fingerprinted().Do(req)
	if err != nil {
		return tlsResponse{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tlsResponse{}, fmt.Errorf("read body: %w", err)
	}

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}
	return tlsResponse{Status: resp.StatusCode, Body: string(data), Headers: respHeaders}, nil
}
