// TLS-spoofed HTTP access for Lua scripts.
//
// Aggregator sites sit behind anti-bot challenges that reject the standard Go
// TLS stack, so the http_tls module routes Lua-initiated requests through the
// shared uTLS Chrome-fingerprint transports from the network package.
//
// Lua API:
//
//	http_tls.get(url)              → returns body string
//	http_tls.get(url, headers_tbl) → returns body string with custom headers
//	http_tls.request(options_tbl)  → returns {status, body}
package custom

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/torii-cli/torii/network"
)

// registerTLSClient injects the "http_tls" global module into the Lua state.
// Called during source loading in loader.go.
func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headersTable := L.OptTable(2, nil)

	headers := make(map[string]string)
	if headersTable != nil {
		headersTable.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	body, _, err := doTLSRequest(http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := getStringField(opts, "method", http.MethodGet)
	url := getStringField(opts, "url", "")
	reqBody := getStringField(opts, "body", "")

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	headers := make(map[string]string)
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}

	respBody, statusCode, err := doTLSRequest(method, url, headers, reqBody)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(statusCode))
	L.SetField(result, "body", lua.LString(respBody))
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

// doTLSRequest performs an HTTP request with the Chrome TLS fingerprint,
// trying HTTP/2 first and falling back to HTTP/1.1 when the edge refuses h2.
// Returns (body, statusCode, error).
func doTLSRequest(method, rawURL string, headers map[string]string, body string) (string, int, error) {
	buildRequest := func() (*http.Request, error) {
		var reqBody io.Reader
		if body != "" {
			reqBody = strings.NewReader(body)
		}

		req, err := http.NewRequest(method, rawURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		network.BrowserHeaders(req)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}

	req, err := buildRequest()
	if err != nil {
		return "", 0, err
	}

	resp, err := network.TLSClient().Do(req)
	if err != nil {
		req, buildErr := buildRequest()
		if buildErr != nil {
			return "", 0, buildErr
		}
		resp, err = network.TLSClientH1().Do(req)
		if err != nil {
			return "", 0, fmt.Errorf("request failed: %w", err)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	return string(respBody), resp.StatusCode, nil
}
