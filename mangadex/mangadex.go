// Package mangadex provides an authenticated client for the Mangadex REST API.
package mangadex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/network"
	"github.com/torii-cli/torii/session"
	"github.com/torii-cli/torii/token"
)

const (
	defaultAPIURL  = "https://api.mangadex.org"
	defaultAuthURL = "https://auth.mangadex.org/realms/mangadex/protocol/openid-connect"
)

// Client issues authenticated REST requests against the Mangadex API.
type Client struct {
	http    *http.Client
	apiURL  string
	authURL string
	session *session.Session
}

// New constructs a client backed by the given token store and the shared
// HTTP client.
func New(store token.Store) *Client {
	c := &Client{
		http:    network.Client(),
		apiURL:  defaultAPIURL,
		authURL: defaultAuthURL,
	}

	c.session = session.New("mangadex", store, session.Hooks{
		Exchange: c.passwordGrant,
		Refresh:  c.refreshGrant,
		Probe:    c.probe,
		Revoke:   c.revoke,
	})

	return c
}

// Session exposes the lifecycle state machine for the CLI layer.
func (c *Client) Session() *session.Session {
	return c.session
}

// apiError is one entry of the Mangadex errors array.
type apiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e apiError) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// envelope is the common Mangadex response wrapper.
type envelope struct {
	Result string          `json:"result"`
	Errors []apiError      `json:"errors"`
	Data   json.RawMessage `json:"data"`
}

// get issues one GET request and decodes the data payload into out.
// When authed is set, the bearer token is attached and a 401 response
// triggers one forced refresh followed by a single retry.
func (c *Client) get(ctx context.Context, path string, params url.Values, authed bool, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, authed, out)
}

// post issues one POST request with an optional JSON payload. Used for follow
// and reading-status updates, which are always authenticated.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, payload, true, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any, authed bool, out any) error {
	err := c.doOnce(ctx, method, path, params, payload, authed, out)
	if authed && apierr.IsUnauthorized(err) {
		log.Warn("mangadex: request unauthorized, forcing token refresh")
		if _, refreshErr := c.session.ForceRefresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return c.doOnce(ctx, method, path, params, payload, authed, out)
	}
	return err
}

func (c *Client) doOnce(ctx context.Context, method, path string, params url.Values, payload any, authed bool, out any) error {
	endpoint := c.apiURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
		return &apierr.HTTPError{Status: resp.StatusCode, Message: restErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.FromTransport(err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &apierr.ParseError{Cause: err}
	}

	if env.Result == "error" {
		message := ""
		if len(env.Errors) > 0 {
			message = env.Errors[0].message()
		}
		return &apierr.HTTPError{Status: resp.StatusCode, Message: message}
	}

	// Most resources arrive wrapped in a data field; a few, such as the
	// reading status, sit at the top level of the body.
	if len(env.Data) > 0 && string(env.Data) != "null" {
		raw = env.Data
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &apierr.ParseError{Cause: err}
	}
	return nil
}

// restErrorMessage extracts the first error detail from a non-2xx body.
func restErrorMessage(body io.Reader) string {
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil || len(env.Errors) == 0 {
		return ""
	}
	return env.Errors[0].message()
}

// probe issues the /user/me request with an explicit token, bypassing the
// session to avoid recursing into its refresh path.
func (c *Client) probe(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user/me", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.HTTPError{Status: resp.StatusCode, Message: restErrorMessage(resp.Body)}
	}
	return nil
}

// Me returns the authenticated Mangadex account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/user/me", nil, true, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, &apierr.ParseError{Cause: fmt.Errorf("user missing from response")}
	}
	return &user, nil
}
