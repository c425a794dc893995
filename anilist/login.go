package anilist

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/open"
	"github.com/torii-cli/torii/token"
)

const (
	redirectURI = "http://localhost:8000/oauth/callback"
	serverPort  = 8000
)

const successHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Authentication Successful</title>
    <style>
        body { margin: 0; padding: 0; background-color: #0f0f11; color: #ffffff; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; text-align: center; }
        h1 { font-size: 24px; font-weight: 500; margin-bottom: 8px; }
        p { font-size: 15px; color: #88888b; }
    </style>
</head>
<body>
    <div>
        <h1>Authentication Successful</h1>
        <p>You may safely close this tab and return to the terminal.</p>
    </div>
</body>
</html>`

const errorHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Authentication Failed</title>
    <style>
        body { margin: 0; padding: 0; background-color: #0f0f11; color: #ffffff; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; text-align: center; }
        h1 { font-size: 24px; font-weight: 500; margin-bottom: 8px; color: #ff5555; }
        p { font-size: 15px; color: #88888b; }
    </style>
</head>
<body>
    <div>
        <h1>Authentication Failed</h1>
        <p>%s</p>
    </div>
</body>
</html>`

// AuthURL returns the OAuth2 authorization endpoint for the browser handoff.
func (c *Client) AuthURL() string {
	return fmt.Sprintf("%s/authorize?client_id=%s&redirect_uri=%s&response_type=code",
		c.oauthURL,
		clientID(),
		url.QueryEscape(redirectURI))
}

// LoginWithBrowser runs the OAuth2 authorization-code flow: it opens the
// browser, waits for the redirect on a local callback server, then logs the
// session in with the received code.
func (c *Client) LoginWithBrowser(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	code, err := c.waitForCallback(ctx)
	if err != nil {
		return err
	}

	return c.LoginWithCode(ctx, code)
}

// LoginWithCode exchanges an already-obtained authorization code through the
// session, persisting the resulting token material. Used directly by the
// pin-entry fallback when no browser is available.
func (c *Client) LoginWithCode(ctx context.Context, code string) error {
	return c.session.Login(ctx, token.Credential{
		ClientID:     clientID(),
		ClientSecret: clientSecret(),
		Password:     code,
	})
}

// waitForCallback serves the OAuth redirect locally and returns the code.
func (c *Client) waitForCallback(ctx context.Context) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverPort),
		Handler: mux,
	}

	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		errorParam := r.URL.Query().Get("error")

		w.Header().Set("Content-Type", "text/html")

		if errorParam != "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, errorHTML, errorParam)
			errCh <- fmt.Errorf("oauth error: %s", errorParam)
			return
		}

		if code == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, errorHTML, "No authorization code received.")
			errCh <- fmt.Errorf("no authorization code received")
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, successHTML)
		codeCh <- code
	})

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("failed to start local server: %w", err)
		}
	}()
	defer srv.Shutdown(ctx)

	authURL := c.AuthURL()
	if err := open.Start(authURL); err != nil {
		log.Warn("Failed to open browser: " + err.Error())
		fmt.Printf("Please manually visit: %s\n", authURL)
	}

	log.Infof("Waiting for OAuth callback on port %d", serverPort)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("authentication timed out")
	}
}
