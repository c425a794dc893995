// Package anilist provides an authenticated client for the Anilist GraphQL API.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/fetcher"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/network"
	"github.com/torii-cli/torii/session"
	"github.com/torii-cli/torii/token"
)

const (
	defaultGraphURL = "https://graphql.anilist.co"
	defaultOAuthURL = "https://anilist.co/api/v2/oauth"

	// Built-in public OAuth client, used when the user configures none.
	defaultClientID     = "36439"
	defaultClientSecret = "F195CuZAnDfd5OjNkb00NUmPNoxbn7e4QBZnX2tc"
)

// Client issues authenticated GraphQL requests against the Anilist API.
// All collaborators are injected; there is no ambient global state.
type Client struct {
	http     *http.Client
	graphURL string
	oauthURL string
	session  *session.Session

	mu         sync.Mutex
	list       *fetcher.Fetcher[*MediaListEntry]
	listViewer int
}

// New constructs a client backed by the given token store and the shared
// HTTP client.
func New(store token.Store) *Client {
	c := &Client{
		http:     network.Client(),
		graphURL: defaultGraphURL,
		oauthURL: defaultOAuthURL,
	}

	c.session = session.New("anilist", store, session.Hooks{
		Exchange: c.exchangeCode,
		Refresh:  c.refreshGrant,
		Probe:    c.probe,
	})

	return c
}

// Session exposes the lifecycle state machine for the CLI layer.
func (c *Client) Session() *session.Session {
	return c.session
}

func clientID() string {
	if id := viper.GetString(key.AnilistID); id != "" {
		return id
	}
	return defaultClientID
}

func clientSecret() string {
	if secret := viper.GetString(key.AnilistSecret); secret != "" {
		return secret
	}
	return defaultClientSecret
}

var errMissingViewer = errors.New("viewer missing from response")

// graphError is a single entry of the GraphQL errors array.
type graphError struct {
	Message string `json:"message"`
}

// execute posts one GraphQL request and decodes the data payload into out.
// When authed is set, the bearer token is attached and a 401 response
// triggers one forced refresh followed by a single retry.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, authed bool, out any) error {
	err := c.executeOnce(ctx, query, variables, authed, out)
	if authed && apierr.IsUnauthorized(err) {
		log.Warn("anilist: request unauthorized, forcing token refresh")
		if _, refreshErr := c.session.ForceRefresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return c.executeOnce(ctx, query, variables, authed, out)
	}
	return err
}

func (c *Client) executeOnce(ctx context.Context, query string, variables map[string]any, authed bool, out any) error {
	body := map[string]any{
		"query":     query,
		"variables": variables,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authed {
		record, err := c.session.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+record.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.HTTPError{Status: resp.StatusCode, Message: graphErrorMessage(resp.Body)}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphError    `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &apierr.ParseError{Cause: err}
	}

	if len(envelope.Errors) > 0 {
		return &apierr.HTTPError{Status: resp.StatusCode, Message: envelope.Errors[0].Message}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &apierr.ParseError{Cause: err}
		}
	}

	return nil
}

// graphErrorMessage extracts the first GraphQL error message from a non-2xx body.
func graphErrorMessage(body io.Reader) string {
	var envelope struct {
		Errors []graphError `json:"errors"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil || len(envelope.Errors) == 0 {
		return ""
	}
	return envelope.Errors[0].Message
}

// probe issues the Viewer query with an explicit token, bypassing the session
// to avoid recursing into its refresh path.
func (c *Client) probe(ctx context.Context, accessToken string) error {
	jsonBody, err := json.Marshal(map[string]any{"query": viewerQuery})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.HTTPError{Status: resp.StatusCode, Message: graphErrorMessage(resp.Body)}
	}
	return nil
}

// Viewer returns the authenticated Anilist account.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	var data struct {
		Viewer *Viewer `json:"Viewer"`
	}
	if err := c.execute(ctx, viewerQuery, nil, true, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil {
		return nil, &apierr.ParseError{Cause: errMissingViewer}
	}
	return data.Viewer, nil
}
