package mangadex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/token"
)

func init() {
	keyring.MockInit()
	filesystem.SetMemMapFs()
	viper.Set(key.MangadexID, "test-client")
	viper.Set(key.MangadexSecret, "test-secret")
	viper.Set(key.MangadexPageSize, 20)
}

var testStoreSeq int

func newTestClient(apiURL, authURL string) (*Client, token.Store) {
	testStoreSeq++
	store := token.Keyring(fmt.Sprintf("mangadex-test-%d", testStoreSeq))
	c := New(store)
	if apiURL != "" {
		c.apiURL = apiURL
	}
	if authURL != "" {
		c.authURL = authURL
	}
	return c, store
}

func TestLogin(t *testing.T) {
	Convey("Given a Mangadex OAuth token endpoint", t, func() {
		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")

			if r.FormValue("password") != "hunter2" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error": "invalid_grant", "error_description": "Invalid user credentials"}`)
				return
			}
			fmt.Fprint(w, `{"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 900}`)
		}))
		defer auth.Close()

		Convey("When logging in with the right password", func() {
			client, _ := newTestClient("", auth.URL)
			err := client.Login(context.Background(), "reader", "hunter2")
			So(err, ShouldBeNil)

			Convey("Then the session holds valid token material", func() {
				record, err := client.session.Token(context.Background())
				So(err, ShouldBeNil)
				So(record.AccessToken, ShouldEqual, "access-1")
				So(record.Valid(time.Now()), ShouldBeTrue)
			})
		})

		Convey("When logging in with a wrong password", func() {
			client, store := newTestClient("", auth.URL)
			err := client.Login(context.Background(), "reader", "wrong")

			Convey("Then a credential error surfaces and the store stays empty", func() {
				So(apierr.IsCredential(err), ShouldBeTrue)
				_, loadErr := store.Load()
				So(errors.Is(loadErr, token.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a credential field is empty", func() {
			client, _ := newTestClient("", auth.URL)

			Convey("Then the offending field is named without network traffic", func() {
				var credErr *apierr.CredentialError

				err := client.Login(context.Background(), "", "hunter2")
				So(errors.As(err, &credErr), ShouldBeTrue)
				So(credErr.Reason, ShouldEqual, apierr.InvalidUsername)

				err = client.Login(context.Background(), "reader", "")
				So(errors.As(err, &credErr), ShouldBeTrue)
				So(credErr.Reason, ShouldEqual, apierr.InvalidPassword)
			})
		})
	})
}

const mangaFixture = `{
	"result": "ok",
	"data": [
		{
			"id": "manga-uuid-1",
			"attributes": {
				"title": {"en": "Berserk"},
				"description": {"en": "A dark fantasy."},
				"status": "ongoing",
				"year": 1989,
				"tags": [{"id": "tag-1", "attributes": {"name": {"en": "Action"}, "group": "genre"}}]
			},
			"relationships": [
				{"id": "cover-uuid", "type": "cover_art", "attributes": {"fileName": "berserk.jpg"}}
			]
		}
	]
}`

func TestSearch(t *testing.T) {
	Convey("Given a Mangadex search endpoint", t, func() {
		var gotOffset string
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotOffset = r.URL.Query().Get("offset")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, mangaFixture)
		}))
		defer api.Close()

		client, _ := newTestClient(api.URL, "")

		Convey("When a page is fetched", func() {
			mangas, err := client.searchPage(context.Background(), "berserk", 0, 20)
			So(err, ShouldBeNil)
			So(gotOffset, ShouldEqual, "0")
			So(mangas, ShouldHaveLength, 1)

			Convey("Then titles, covers and statuses survive the parse", func() {
				manga := mangas[0]
				So(manga.Name(), ShouldEqual, "Berserk")
				So(manga.Description(), ShouldEqual, "A dark fantasy.")
				So(manga.Attributes.Status, ShouldEqual, "ongoing")
				So(manga.CoverURL(), ShouldEqual, "https://uploads.mangadex.org/covers/manga-uuid-1/berserk.jpg.512.jpg")
				So(manga.Attributes.Tags[0].Name(), ShouldEqual, "Action")
			})
		})
	})
}

func TestUnauthorizedRetry(t *testing.T) {
	Convey("Given a token the server no longer accepts", t, func() {
		var refreshCalls, apiCalls int

		auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			if r.FormValue("grant_type") == "refresh_token" {
				refreshCalls++
				fmt.Fprint(w, `{"access_token": "fresh", "refresh_token": "refresh-2", "expires_in": 900}`)
				return
			}
			fmt.Fprint(w, `{"access_token": "stale", "refresh_token": "refresh-1", "expires_in": 900}`)
		}))
		defer auth.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiCalls++
			w.Header().Set("Content-Type", "application/json")
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"result": "error", "errors": [{"status": 401, "title": "unauthorized"}]}`)
				return
			}
			fmt.Fprint(w, `{"result": "ok", "data": {"id": "user-uuid", "attributes": {"username": "reader"}}}`)
		}))
		defer api.Close()

		client, _ := newTestClient(api.URL, auth.URL)
		So(client.Login(context.Background(), "reader", "hunter2"), ShouldBeNil)

		Convey("When an authenticated request comes back 401", func() {
			user, err := client.Me(context.Background())

			Convey("Then one refresh and one retry resolve it", func() {
				So(err, ShouldBeNil)
				So(user.Attributes.Username, ShouldEqual, "reader")
				So(refreshCalls, ShouldEqual, 1)
				So(apiCalls, ShouldEqual, 2)
			})
		})
	})
}

func TestReadingStatus(t *testing.T) {
	Convey("Given the reading status endpoint", t, func() {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"result": "ok", "status": "reading"}`)
		}))
		defer api.Close()

		client, store := newTestClient(api.URL, "")
		So(store.Save(token.FromGrant("access-1", "refresh-1", 900, time.Now())), ShouldBeNil)

		Convey("When the status is fetched", func() {
			status, err := client.ReadingStatusOf(context.Background(), "manga-uuid-1")

			Convey("Then the top-level field decodes", func() {
				So(err, ShouldBeNil)
				So(status, ShouldEqual, ReadingStatusReading)
			})
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given an aggregate response", t, func() {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"result": "ok",
				"volumes": {
					"1": {"volume": "1", "count": 2, "chapters": {"1": {"chapter": "1", "count": 1}, "2": {"chapter": "2", "count": 1}}},
					"2": {"volume": "2", "count": 1, "chapters": {"3": {"chapter": "3", "count": 1}}}
				}
			}`)
		}))
		defer api.Close()

		client, _ := newTestClient(api.URL, "")

		Convey("When the aggregate is fetched", func() {
			aggregate, err := client.GetAggregate(context.Background(), "manga-uuid-1", "en")
			So(err, ShouldBeNil)

			Convey("Then chapters are counted across volumes", func() {
				So(aggregate.ChapterCount(), ShouldEqual, 3)
				So(aggregate.ChapterNumbers(), ShouldResemble, []string{"1", "2", "3"})
			})
		})
	})
}
