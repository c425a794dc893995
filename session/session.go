// Package session drives the login/refresh/logout lifecycle for one tracker integration.
//
// Access tokens are short-lived (Mangadex hands out ~15 minutes) while
// refresh tokens live much longer, so the session extends itself
// transparently: valid token → use it, expired token → one refresh attempt,
// refresh rejected → wipe the store and require a fresh login. Network
// failures are reported as-is and never clear stored material, so a dead
// connection is not mistaken for a revoked account.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/token"
)

// State describes the session lifecycle position, derived from the store at
// query time and never cached.
type State string

const (
	LoggedOut State = "logged out"
	LoggingIn State = "logging in"
	LoggedIn  State = "logged in"
)

// ErrNotLoggedIn is returned when token material is requested before any login.
var ErrNotLoggedIn = errors.New("session: not logged in")

// ErrLoginInFlight is returned when Login is called while another login for
// the same session is still exchanging credentials.
var ErrLoginInFlight = errors.New("session: login already in progress")

// Hooks supplies the remote operations of one identity provider.
// Exchange and Refresh are required; Probe and Revoke are optional.
type Hooks struct {
	// Exchange trades a credential for fresh token material.
	Exchange func(ctx context.Context, credential token.Credential) (token.Record, error)
	// Refresh trades a refresh token for fresh token material.
	Refresh func(ctx context.Context, refreshToken string) (token.Record, error)
	// Probe issues a lightweight authenticated request to verify the access token.
	Probe func(ctx context.Context, accessToken string) error
	// Revoke invalidates the token material remotely. Best effort.
	Revoke func(ctx context.Context, record token.Record) error
}

// Session serializes all lifecycle transitions for one integration behind a
// mutex, so concurrent callers wait for a single outcome instead of racing
// token writes.
type Session struct {
	name  string
	store token.Store
	hooks Hooks

	mu        sync.Mutex
	loggingIn bool
	now       func() time.Time
}

// New constructs a session for the named integration.
func New(name string, store token.Store, hooks Hooks) *Session {
	return &Session{
		name:  name,
		store: store,
		hooks: hooks,
		now:   time.Now,
	}
}

// State derives the current lifecycle position from the store.
func (s *Session) State() State {
	s.mu.Lock()
	loggingIn := s.loggingIn
	s.mu.Unlock()

	if loggingIn {
		return LoggingIn
	}

	record, err := s.store.Load()
	if err != nil || record.Empty() {
		return LoggedOut
	}
	return LoggedIn
}

// Login exchanges the credential for token material and persists both.
// On rejection nothing is written, so a failed login never leaves partial
// state behind.
func (s *Session) Login(ctx context.Context, credential token.Credential) error {
	s.mu.Lock()
	if s.loggingIn {
		s.mu.Unlock()
		return ErrLoginInFlight
	}
	s.loggingIn = true
	s.mu.Unlock()

	// The exchange is a network round trip; it runs without the lock so
	// State() reports LoggingIn while it is in flight.
	record, err := s.hooks.Exchange(ctx, credential)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggingIn = false

	if err != nil {
		log.Warnf("%s: login rejected: %v", s.name, err)
		return err
	}

	if err := s.store.SaveCredential(credential); err != nil {
		return err
	}
	if err := s.store.Save(record); err != nil {
		return err
	}

	log.Infof("%s: logged in, token valid until %s", s.name, record.ExpiresAt)
	return nil
}

// Token returns a record valid at this instant, refreshing at most once when
// the stored one has expired.
func (s *Session) Token(ctx context.Context) (token.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.store.Load()
	if errors.Is(err, token.ErrNotFound) || (err == nil && record.Empty()) {
		return token.Record{}, ErrNotLoggedIn
	}
	if err != nil {
		return token.Record{}, err
	}

	if record.Valid(s.now()) {
		return record, nil
	}

	log.Infof("%s: access token expired, refreshing", s.name)
	return s.refreshLocked(ctx, record)
}

// ForceRefresh discards the current access token and performs one refresh,
// regardless of the stored expiry. Used when a request came back 401 despite
// a token the clock still considers valid.
func (s *Session) ForceRefresh(ctx context.Context) (token.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.store.Load()
	if errors.Is(err, token.ErrNotFound) || (err == nil && record.Empty()) {
		return token.Record{}, ErrNotLoggedIn
	}
	if err != nil {
		return token.Record{}, err
	}

	return s.refreshLocked(ctx, record)
}

// Verify runs the probe against the current token, forcing a refresh when the
// remote rejects it. A session without a probe hook verifies by expiry alone.
func (s *Session) Verify(ctx context.Context) error {
	record, err := s.Token(ctx)
	if err != nil {
		return err
	}

	if s.hooks.Probe == nil {
		return nil
	}

	err = s.hooks.Probe(ctx, record.AccessToken)
	if err == nil {
		return nil
	}
	if !apierr.IsUnauthorized(err) {
		return err
	}

	// The clock said valid but the remote disagreed; the token was revoked
	// out-of-band. One refresh attempt before giving up.
	log.Warnf("%s: probe rejected a token the clock considered valid", s.name)
	if _, err := s.ForceRefresh(ctx); err != nil {
		return err
	}

	record, err = s.Token(ctx)
	if err != nil {
		return err
	}
	return s.hooks.Probe(ctx, record.AccessToken)
}

// Logout revokes remotely (best effort) and unconditionally clears the store.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hooks.Revoke != nil {
		if record, err := s.store.Load(); err == nil && !record.Empty() {
			if err := s.hooks.Revoke(ctx, record); err != nil {
				log.Warnf("%s: remote revocation failed: %v", s.name, err)
			}
		}
	}

	if err := s.store.Clear(); err != nil {
		return err
	}
	return s.store.ClearCredential()
}

// refreshLocked exchanges the refresh token for new material. Callers hold s.mu.
func (s *Session) refreshLocked(ctx context.Context, record token.Record) (token.Record, error) {
	if record.RefreshToken == "" {
		// Nothing to refresh with; the token is simply gone.
		if err := s.store.Clear(); err != nil {
			return token.Record{}, err
		}
		return token.Record{}, &apierr.TokenError{Reason: apierr.TokenExpired}
	}

	fresh, err := s.hooks.Refresh(ctx, record.RefreshToken)
	if err != nil {
		if apierr.IsNetwork(err) {
			// Connectivity problem, not a lifecycle one. Keep the store so a
			// retry can succeed once the network returns.
			return token.Record{}, err
		}

		log.Warnf("%s: refresh token rejected, forcing re-login", s.name)
		if clearErr := s.store.Clear(); clearErr != nil {
			return token.Record{}, clearErr
		}
		return token.Record{}, &apierr.TokenError{Reason: apierr.RefreshFailed}
	}

	// A provider that omits refresh_token from the response keeps the old
	// one valid; preserve it.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = record.RefreshToken
	}

	if err := s.store.Save(fresh); err != nil {
		return token.Record{}, err
	}

	log.Infof("%s: token refreshed, valid until %s", s.name, fresh.ExpiresAt)
	return fresh, nil
}
