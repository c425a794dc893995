package session

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/token"
)

func init() {
	keyring.MockInit()
}

func TestLogin(t *testing.T) {
	Convey("Login", t, func() {
		ctx := context.Background()
		store := token.Keyring("test-login")
		So(store.Clear(), ShouldBeNil)
		So(store.ClearCredential(), ShouldBeNil)

		Convey("Successful login persists credential and record", func() {
			s := New("test", store, Hooks{
				Exchange: func(_ context.Context, _ token.Credential) (token.Record, error) {
					return token.FromGrant("access", "refresh", 900, time.Now()), nil
				},
			})

			So(s.State(), ShouldEqual, LoggedOut)
			So(s.Login(ctx, token.Credential{Username: "user", Password: "right"}), ShouldBeNil)
			So(s.State(), ShouldEqual, LoggedIn)

			record, err := store.Load()
			So(err, ShouldBeNil)
			So(record.Valid(time.Now()), ShouldBeTrue)
		})

		Convey("Rejected login leaves the store untouched", func() {
			So(store.Clear(), ShouldBeNil)
			So(store.ClearCredential(), ShouldBeNil)

			s := New("test", store, Hooks{
				Exchange: func(_ context.Context, _ token.Credential) (token.Record, error) {
					return token.Record{}, &apierr.CredentialError{Reason: apierr.RemoteRejected}
				},
			})

			err := s.Login(ctx, token.Credential{Username: "user", Password: "wrong"})
			So(apierr.IsCredential(err), ShouldBeTrue)
			So(s.State(), ShouldEqual, LoggedOut)

			_, err = store.Load()
			So(err, ShouldEqual, token.ErrNotFound)
			_, err = store.LoadCredential()
			So(err, ShouldEqual, token.ErrNotFound)
		})

		Convey("State reports LoggingIn while the exchange is in flight", func() {
			So(store.Clear(), ShouldBeNil)
			So(store.ClearCredential(), ShouldBeNil)

			started := make(chan struct{})
			release := make(chan struct{})

			s := New("test", store, Hooks{
				Exchange: func(_ context.Context, _ token.Credential) (token.Record, error) {
					close(started)
					<-release
					return token.FromGrant("access", "refresh", 900, time.Now()), nil
				},
			})

			done := make(chan error, 1)
			go func() {
				done <- s.Login(ctx, token.Credential{Username: "user", Password: "right"})
			}()

			<-started
			So(s.State(), ShouldEqual, LoggingIn)
			So(s.Login(ctx, token.Credential{}), ShouldEqual, ErrLoginInFlight)

			close(release)
			So(<-done, ShouldBeNil)
			So(s.State(), ShouldEqual, LoggedIn)
		})
	})
}

func TestToken(t *testing.T) {
	Convey("Token", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		store := token.Keyring("test-token")
		So(store.Clear(), ShouldBeNil)

		Convey("Without a login it reports ErrNotLoggedIn", func() {
			s := New("test", store, Hooks{})
			_, err := s.Token(ctx)
			So(err, ShouldEqual, ErrNotLoggedIn)
		})

		Convey("A valid record is returned without any remote call", func() {
			So(store.Save(token.FromGrant("access", "refresh", 900, now)), ShouldBeNil)

			refreshed := false
			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, _ string) (token.Record, error) {
					refreshed = true
					return token.Record{}, nil
				},
			})
			s.now = func() time.Time { return now }

			record, err := s.Token(ctx)
			So(err, ShouldBeNil)
			So(record.AccessToken, ShouldEqual, "access")
			So(refreshed, ShouldBeFalse)
		})

		Convey("An expired access token is refreshed transparently", func() {
			So(store.Save(token.FromGrant("stale", "refresh", 900, now.Add(-time.Hour))), ShouldBeNil)

			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, refreshToken string) (token.Record, error) {
					So(refreshToken, ShouldEqual, "refresh")
					return token.FromGrant("fresh", "refresh-2", 900, now), nil
				},
			})
			s.now = func() time.Time { return now }

			record, err := s.Token(ctx)
			So(err, ShouldBeNil)
			So(record.AccessToken, ShouldEqual, "fresh")

			persisted, err := store.Load()
			So(err, ShouldBeNil)
			So(persisted.AccessToken, ShouldEqual, "fresh")
		})

		Convey("A refresh response omitting the refresh token keeps the old one", func() {
			So(store.Save(token.FromGrant("stale", "keep-me", 900, now.Add(-time.Hour))), ShouldBeNil)

			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, _ string) (token.Record, error) {
					return token.FromGrant("fresh", "", 900, now), nil
				},
			})
			s.now = func() time.Time { return now }

			record, err := s.Token(ctx)
			So(err, ShouldBeNil)
			So(record.RefreshToken, ShouldEqual, "keep-me")
		})

		Convey("A rejected refresh clears the store and forces re-login", func() {
			So(store.Save(token.FromGrant("stale", "dead", 900, now.Add(-time.Hour))), ShouldBeNil)

			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, _ string) (token.Record, error) {
					return token.Record{}, &apierr.HTTPError{Status: 401}
				},
			})
			s.now = func() time.Time { return now }

			_, err := s.Token(ctx)
			var tokenErr *apierr.TokenError
			So(errors.As(err, &tokenErr), ShouldBeTrue)
			So(tokenErr.Reason, ShouldEqual, apierr.RefreshFailed)
			So(s.State(), ShouldEqual, LoggedOut)

			_, err = store.Load()
			So(err, ShouldEqual, token.ErrNotFound)
		})

		Convey("A network failure during refresh keeps the store intact", func() {
			So(store.Save(token.FromGrant("stale", "refresh", 900, now.Add(-time.Hour))), ShouldBeNil)

			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, _ string) (token.Record, error) {
					return token.Record{}, &apierr.NetworkError{Reason: apierr.Timeout}
				},
			})
			s.now = func() time.Time { return now }

			_, err := s.Token(ctx)
			So(apierr.IsNetwork(err), ShouldBeTrue)
			So(s.State(), ShouldEqual, LoggedIn)
		})

		Convey("An expired token without a refresh token reports expiry", func() {
			So(store.Save(token.FromGrant("stale", "", 900, now.Add(-time.Hour))), ShouldBeNil)

			s := New("test", store, Hooks{})
			s.now = func() time.Time { return now }

			_, err := s.Token(ctx)
			var tokenErr *apierr.TokenError
			So(errors.As(err, &tokenErr), ShouldBeTrue)
			So(tokenErr.Reason, ShouldEqual, apierr.TokenExpired)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Verify", t, func() {
		ctx := context.Background()
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
		store := token.Keyring("test-verify")
		So(store.Clear(), ShouldBeNil)

		Convey("A probe rejection triggers one refresh and a re-probe", func() {
			So(store.Save(token.FromGrant("revoked", "refresh", 900, now)), ShouldBeNil)

			probes := 0
			s := New("test", store, Hooks{
				Refresh: func(_ context.Context, _ string) (token.Record, error) {
					return token.FromGrant("fresh", "refresh", 900, now), nil
				},
				Probe: func(_ context.Context, accessToken string) error {
					probes++
					if accessToken == "revoked" {
						return &apierr.HTTPError{Status: 401}
					}
					return nil
				},
			})
			s.now = func() time.Time { return now }

			So(s.Verify(ctx), ShouldBeNil)
			So(probes, ShouldEqual, 2)
		})
	})
}

func TestLogout(t *testing.T) {
	Convey("Logout", t, func() {
		ctx := context.Background()
		store := token.Keyring("test-logout")

		Convey("Clears the store even when remote revocation fails", func() {
			So(store.Save(token.FromGrant("access", "refresh", 900, time.Now())), ShouldBeNil)
			So(store.SaveCredential(token.Credential{Username: "user"}), ShouldBeNil)

			s := New("test", store, Hooks{
				Revoke: func(_ context.Context, _ token.Record) error {
					return errors.New("revocation endpoint down")
				},
			})

			So(s.Logout(ctx), ShouldBeNil)
			So(s.State(), ShouldEqual, LoggedOut)

			_, err := store.Load()
			So(err, ShouldEqual, token.ErrNotFound)
			_, err = store.LoadCredential()
			So(err, ShouldEqual, token.ErrNotFound)
		})

		Convey("Logout twice is harmless", func() {
			s := New("test", store, Hooks{})
			So(s.Logout(ctx), ShouldBeNil)
			So(s.Logout(ctx), ShouldBeNil)
		})
	})
}
