// Package apierr defines the typed error taxonomy shared by all tracker integrations.
//
// Every remote-call failure is converted to one of these types at the client
// boundary; raw transport errors never reach the CLI layer. The split matters
// for presentation: a credential rejection is user-fixable and surfaced
// verbatim on the login form, a token failure forces re-login, and a network
// failure gets a retry affordance.
package apierr

import (
	"errors"
	"fmt"
)

// CredentialReason identifies which part of the supplied credential the remote rejected.
type CredentialReason string

const (
	InvalidClientID     CredentialReason = "invalid client id"
	InvalidClientSecret CredentialReason = "invalid client secret"
	InvalidUsername     CredentialReason = "invalid username"
	InvalidPassword     CredentialReason = "invalid password"
	RemoteRejected      CredentialReason = "rejected by remote"
)

// CredentialError reports a login attempt refused by the identity provider.
type CredentialError struct {
	Reason  CredentialReason
	Message string
}

func (e *CredentialError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("credential error: %s", e.Reason)
	}
	return fmt.Sprintf("credential error: %s: %s", e.Reason, e.Message)
}

// TokenReason identifies why the stored token material became unusable.
type TokenReason string

const (
	TokenExpired  TokenReason = "expired"
	RefreshFailed TokenReason = "refresh failed"
	TokenRevoked  TokenReason = "revoked"
)

// TokenError reports token material that can no longer authenticate requests.
// It always forces a re-login; a refresh is attempted at most once per detection.
type TokenError struct {
	Reason TokenReason
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token error: %s", e.Reason)
}

// NetworkReason identifies the transport-level failure class.
type NetworkReason string

const (
	Timeout          NetworkReason = "timeout"
	ConnectionFailed NetworkReason = "connection failed"
	DNSFailure       NetworkReason = "dns failure"
)

// NetworkError reports a transport failure (timeout, refused connection, DNS).
// It is never treated as a credential problem.
type NetworkError struct {
	Reason NetworkReason
	Cause  error
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("network error: %s", e.Reason)
	}
	return fmt.Sprintf("network error: %s: %s", e.Reason, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// ParseError reports a malformed or unexpected JSON shape from a remote API.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// HTTPError reports a non-2xx response that carried no finer-grained meaning.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status %d", e.Status)
	}
	return fmt.Sprintf("http error: status %d: %s", e.Status, e.Message)
}

// Classification helpers used at session and CLI boundaries.

// IsCredential reports whether err is a credential rejection.
func IsCredential(err error) bool {
	var target *CredentialError
	return errors.As(err, &target)
}

// IsToken reports whether err is a token lifecycle failure.
func IsToken(err error) bool {
	var target *TokenError
	return errors.As(err, &target)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err is an HTTP 401 response.
func IsUnauthorized(err error) bool {
	var target *HTTPError
	return errors.As(err, &target) && target.Status == 401
}
