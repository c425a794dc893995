// Package network provides pre-configured HTTP clients shared across the application.
package network

import (
	"net/http"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/key"
)

// defaultTimeout bounds connect and read time when no timeout is configured.
// Exceeding it surfaces as a network timeout error, never as a credential problem.
const defaultTimeout = 10 * time.Second

// timeout resolves the configured request timeout, falling back to the
// default when the key is unset or nonsensical.
func timeout() time.Duration {
	if seconds := viper.GetInt(key.NetworkTimeoutSeconds); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultTimeout
}

var (
	clientOnce sync.Once
	client     *http.Client
)

// Client returns the shared HTTP client used for all tracker API communication.
// It is built on first use, after configuration is loaded, so the configured
// network timeout takes effect.
func Client() *http.Client {
	clientOnce.Do(func() {
		t := timeout()
		client = &http.Client{
			Timeout:   t,
			Transport: newTransport(t),
		}
	})
	return client
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport(timeout time.Duration) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = timeout
	t.ExpectContinueTimeout = timeout
	return t
}
