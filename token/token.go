// Package token holds credential and token material for tracker integrations.
package token

import "time"

// Credential is the client/user credential supplied at login.
// It is persisted so an expired refresh token can prompt a password-grant
// retry without re-entering everything, and cleared on logout.
type Credential struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

// Record is the token material issued by an identity provider.
//
// ExpiresAt is derived once from the expires_in of the issuing grant and
// never recomputed afterwards.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// FromGrant builds a Record from a token endpoint response.
// expiresIn is the lifetime in seconds reported by the provider.
func FromGrant(accessToken, refreshToken string, expiresIn int, now time.Time) Record {
	return Record{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(time.Duration(expiresIn) * time.Second),
	}
}

// Valid reports whether the record can authenticate a request at the given
// instant. Pure timestamp comparison; no network call is made.
func (r Record) Valid(now time.Time) bool {
	return r.AccessToken != "" && now.Before(r.ExpiresAt)
}

// Empty reports whether the record holds no token material at all.
func (r Record) Empty() bool {
	return r.AccessToken == "" && r.RefreshToken == ""
}
