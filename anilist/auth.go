package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/token"
)

// grantResponse is the token endpoint payload for both the code and refresh grants.
type grantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// grantErrorResponse is the OAuth error payload returned on 4xx.
type grantErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Message     string `json:"message"`
}

// exchangeCode trades an authorization code for token material.
// Anilist has no password grant; the code obtained from the browser flow is
// carried in the credential's Password field.
func (c *Client) exchangeCode(ctx context.Context, credential token.Credential) (token.Record, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {credential.ClientID},
		"client_secret": {credential.ClientSecret},
		"redirect_uri":  {redirectURI},
		"code":          {credential.Password},
	}
	return c.tokenGrant(ctx, form)
}

// refreshGrant trades a refresh token for fresh token material.
func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (token.Record, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {clientID()},
		"client_secret": {clientSecret()},
		"refresh_token": {refreshToken},
	}
	return c.tokenGrant(ctx, form)
}

// tokenGrant posts one form to the OAuth token endpoint and maps the outcome.
func (c *Client) tokenGrant(ctx context.Context, form url.Values) (token.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return token.Record{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return token.Record{}, apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var grantErr grantErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&grantErr)
		return token.Record{}, mapGrantError(resp.StatusCode, grantErr)
	}

	var grant grantResponse
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return token.Record{}, &apierr.ParseError{Cause: err}
	}
	if grant.AccessToken == "" {
		return token.Record{}, &apierr.CredentialError{Reason: apierr.RemoteRejected, Message: "no access token in response"}
	}

	return token.FromGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresIn, time.Now()), nil
}

// mapGrantError converts an OAuth error payload into the typed taxonomy.
func mapGrantError(status int, grantErr grantErrorResponse) error {
	message := grantErr.Description
	if message == "" {
		message = grantErr.Message
	}

	switch grantErr.Error {
	case "invalid_client":
		return &apierr.CredentialError{Reason: apierr.InvalidClientID, Message: message}
	case "invalid_grant", "invalid_request":
		return &apierr.CredentialError{Reason: apierr.RemoteRejected, Message: message}
	}

	if status >= 400 && status < 500 {
		return &apierr.CredentialError{Reason: apierr.RemoteRejected, Message: message}
	}
	return &apierr.HTTPError{Status: status, Message: message}
}
