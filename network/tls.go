// Package network provides pre-configured HTTP clients shared across the application.
//
// The TLS client in this file carries a spoofed Chrome fingerprint built on
// refraction-networking/utls. Aggregator endpoints sit behind anti-bot
// challenges (Cloudflare, DDoS-Guard) that reject the standard Go TLS stack,
// so provider traffic is routed through a uTLS HelloChrome handshake instead.
//
// Protocol negotiation: an HTTP/2 transport is tried first (preferred by
// modern CDNs); on failure the request transparently falls back to an
// HTTP/1.1-only transport with forced protocol advertisement.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"sync"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"

	"github.com/torii-cli/torii/constant"
)

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that refuse h2.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLSH1(ctx, network, addr)
	},
}

// TLSClient returns an HTTP client carrying the spoofed fingerprint, preferring HTTP/2.
func TLSClient() *http.Client {
	return &http.Client{
		Timeout:   timeout(),
		Transport: getH2Transport(),
	}
}

// TLSClientH1 returns the HTTP/1.1 fallback client with the same fingerprint.
func TLSClientH1() *http.Client {
	return &http.Client{
		Timeout:   timeout(),
		Transport: h1Transport,
	}
}

// BrowserHeaders applies default headers that match the spoofed fingerprint.
func BrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
}

// dialTLS creates a TLS connection mimicking Chrome's Client Hello.
// Advertises both h2 and http/1.1, matching natural Chrome behavior.
func dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: defaultTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}

// dialTLSH1 creates a TLS connection forcing HTTP/1.1 only (for fallback).
func dialTLSH1(ctx context.Context, network, addr string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: defaultTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: []string{"http/1.1"},
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
