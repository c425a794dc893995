package mangadex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/token"
)

// grantResponse is the token endpoint payload for both the password and refresh grants.
type grantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// grantErrorResponse is the OAuth error payload returned on 4xx.
type grantErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func configuredClientID() string {
	return viper.GetString(key.MangadexID)
}

func configuredClientSecret() string {
	return viper.GetString(key.MangadexSecret)
}

// Login validates the credential fields locally, then runs the password grant
// through the session. Per-field validation errors surface before any network
// traffic so the login form can highlight the offending field.
func (c *Client) Login(ctx context.Context, username, password string) error {
	credential := token.Credential{
		ClientID:     configuredClientID(),
		ClientSecret: configuredClientSecret(),
		Username:     username,
		Password:     password,
	}

	if err := validateCredential(credential); err != nil {
		return err
	}

	return c.session.Login(ctx, credential)
}

func validateCredential(credential token.Credential) error {
	switch {
	case credential.ClientID == "":
		return &apierr.CredentialError{Reason: apierr.InvalidClientID, Message: "client id is not set"}
	case credential.ClientSecret == "":
		return &apierr.CredentialError{Reason: apierr.InvalidClientSecret, Message: "client secret is not set"}
	case credential.Username == "":
		return &apierr.CredentialError{Reason: apierr.InvalidUsername, Message: "username is empty"}
	case credential.Password == "":
		return &apierr.CredentialError{Reason: apierr.InvalidPassword, Message: "password is empty"}
	}
	return nil
}

// passwordGrant trades a username and password for token material.
func (c *Client) passwordGrant(ctx context.Context, credential token.Credential) (token.Record, error) {
	form := url.Values{
		"grant_type":    {"password"},
		"client_id":     {credential.ClientID},
		"client_secret": {credential.ClientSecret},
		"username":      {credential.Username},
		"password":      {credential.Password},
	}
	return c.tokenGrant(ctx, form)
}

// refreshGrant trades a refresh token for fresh token material.
func (c *Client) refreshGrant(ctx context.Context, refreshToken string) (token.Record, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {configuredClientID()},
		"client_secret": {configuredClientSecret()},
		"refresh_token": {refreshToken},
	}
	return c.tokenGrant(ctx, form)
}

// revoke invalidates the refresh token remotely. Best effort, run on logout.
func (c *Client) revoke(ctx context.Context, record token.Record) error {
	form := url.Values{
		"client_id":     {configuredClientID()},
		"client_secret": {configuredClientSecret()},
		"refresh_token": {record.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/logout", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apierr.HTTPError{Status: resp.StatusCode}
	}
	return nil
}

// tokenGrant posts one form to the OAuth token endpoint and maps the outcome.
func (c *Client) tokenGrant(ctx context.Context, form url.Values) (token.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/token", strings.NewReader(form.Encode()))
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
// The identity provider does not say which of username or password was wrong,
// so remote rejections of the user pair surface as RemoteRejected.
func mapGrantError(status int, grantErr grantErrorResponse) error {
	switch grantErr.Error {
	case "invalid_client", "unauthorized_client":
		return &apierr.CredentialError{Reason: apierr.InvalidClientSecret, Message: grantErr.Description}
	case "invalid_grant", "invalid_request":
		return &apierr.CredentialError{Reason: apierr.RemoteRejected, Message: grantErr.Description}
	}

	if status >= 400 && status < 500 {
		return &apierr.CredentialError{Reason: apierr.RemoteRejected, Message: grantErr.Description}
	}
	return &apierr.HTTPError{Status: status, Message: grantErr.Description}
}
