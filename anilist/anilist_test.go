package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
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
}

var testStoreSeq int

// newTestClient builds a client against test servers, backed by a fresh
// keyring namespace so tests do not share token state.
func newTestClient(graphURL, oauthURL string) (*Client, token.Store) {
	testStoreSeq++
	store := token.Keyring(fmt.Sprintf("anilist-test-%d", testStoreSeq))
	c := New(store)
	if graphURL != "" {
		c.graphURL = graphURL
	}
	if oauthURL != "" {
		c.oauthURL = oauthURL
	}
	return c, store
}

const mediaListFixture = `{
	"data": {
		"Page": {
			"mediaList": [
				{
					"id": 901,
					"status": "CURRENT",
					"progress": 7,
					"score": 8.5,
					"media": {
						"id": 21,
						"title": {"romaji": "Shingeki no Kyojin", "english": "Attack on Titan", "native": "進撃の巨人"},
						"coverImage": {"extraLarge": "https://img.anilist.co/xl/21.png", "large": "https://img.anilist.co/l/21.png"},
						"status": "FINISHED",
						"episodes": 25,
						"averageScore": 84
					}
				},
				{
					"id": 902,
					"status": "COMPLETED",
					"progress": 64,
					"score": 10,
					"media": {
						"id": 5114,
						"title": {"romaji": "Hagane no Renkinjutsushi", "english": "Fullmetal Alchemist: Brotherhood", "native": "鋼の錬金術師"},
						"coverImage": {"extraLarge": "https://img.anilist.co/xl/5114.png", "large": "https://img.anilist.co/l/5114.png"},
						"status": "FINISHED",
						"episodes": 64,
						"averageScore": 90
					}
				}
			]
		}
	}
}`

func TestMediaListParsing(t *testing.T) {
	Convey("Given a media list response from Anilist", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, mediaListFixture)
		}))
		defer server.Close()

		client, store := newTestClient(server.URL, "")
		So(store.Save(token.FromGrant("access-1", "refresh-1", 3600, time.Now())), ShouldBeNil)

		Convey("When a list page is fetched", func() {
			entries, err := client.mediaListPage(context.Background(), 1, 0, 20)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)

			Convey("Then titles, covers, statuses and scores survive the parse", func() {
				So(entries[0].Media.Name(), ShouldEqual, "Attack on Titan")
				So(entries[0].Media.CoverImage.ExtraLarge, ShouldEqual, "https://img.anilist.co/xl/21.png")
				So(entries[0].Status, ShouldEqual, MediaListStatusCurrent)
				So(entries[0].Progress, ShouldEqual, 7)
				So(entries[0].Score, ShouldEqual, 8.5)

				So(entries[1].Media.Name(), ShouldEqual, "Fullmetal Alchemist: Brotherhood")
				So(entries[1].Status, ShouldEqual, MediaListStatusCompleted)
				So(entries[1].Score, ShouldEqual, 10)
			})
		})
	})
}

func TestOptimisticPatch(t *testing.T) {
	Convey("Given a loaded anime list", t, func() {
		viper.Set(key.AnilistPageSize, 20)

		var listCalls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Query string `json:"query"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode request body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")

			if strings.Contains(body.Query, "SaveMediaListEntry") {
				fmt.Fprint(w, `{"data": {"SaveMediaListEntry": {
					"id": 901,
					"status": "CURRENT",
					"progress": 8,
					"score": 8.5,
					"media": {"id": 21, "title": {"english": "Attack on Titan"}}
				}}}`)
				return
			}

			listCalls++
			fmt.Fprint(w, mediaListFixture)
		}))
		defer server.Close()

		client, store := newTestClient(server.URL, "")
		So(store.Save(token.FromGrant("access-1", "refresh-1", 3600, time.Now())), ShouldBeNil)

		list := client.ListFetcher(1)
		_, err := list.First(context.Background())
		So(err, ShouldBeNil)
		So(list.Len(), ShouldEqual, 2)

		Convey("When an entry is saved", func() {
			entry, err := client.SaveEntry(context.Background(), 21, 8, MediaListStatusCurrent)
			So(err, ShouldBeNil)
			So(entry.Progress, ShouldEqual, 8)

			Convey("Then the held list reflects the update without a re-fetch", func() {
				items := client.ListFetcher(1).Items()
				So(items[0].ID, ShouldEqual, 901)
				So(items[0].Progress, ShouldEqual, 8)
				So(items[0].Media.Name(), ShouldEqual, "Attack on Titan")
				So(items[1].Progress, ShouldEqual, 64)
				So(listCalls, ShouldEqual, 1)
			})
		})
	})
}

func TestCodeExchange(t *testing.T) {
	Convey("Given an OAuth token endpoint", t, func() {
		var lastGrantType string
		oauth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			lastGrantType = r.FormValue("grant_type")

			w.Header().Set("Content-Type", "application/json")
			switch r.FormValue("code") {
			case "good-code":
				fmt.Fprint(w, `{"access_token": "access-1", "refresh_token": "refresh-1", "expires_in": 3600}`)
			default:
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error": "invalid_grant", "error_description": "code expired"}`)
			}
		}))
		defer oauth.Close()

		client, _ := newTestClient("", oauth.URL)

		Convey("When a valid authorization code is exchanged", func() {
			err := client.LoginWithCode(context.Background(), "good-code")
			So(err, ShouldBeNil)
			So(lastGrantType, ShouldEqual, "authorization_code")

			Convey("Then the session holds valid token material", func() {
				record, err := client.session.Token(context.Background())
				So(err, ShouldBeNil)
				So(record.AccessToken, ShouldEqual, "access-1")
				So(record.RefreshToken, ShouldEqual, "refresh-1")
				So(record.Valid(time.Now()), ShouldBeTrue)
			})
		})

		Convey("When a rejected code is exchanged", func() {
			err := client.LoginWithCode(context.Background(), "bad-code")

			Convey("Then a credential error surfaces and nothing is stored", func() {
				So(apierr.IsCredential(err), ShouldBeTrue)
				_, tokenErr := client.session.Token(context.Background())
				So(tokenErr, ShouldNotBeNil)
			})
		})
	})
}

func TestUnauthorizedRetry(t *testing.T) {
	Convey("Given a token the server no longer accepts", t, func() {
		var graphCalls, refreshCalls int

		oauth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")

			if r.FormValue("grant_type") == "refresh_token" {
				refreshCalls++
				if got := r.FormValue("refresh_token"); got != "refresh-1" {
					t.Errorf("refresh_token = %q, want %q", got, "refresh-1")
				}
				fmt.Fprint(w, `{"access_token": "fresh", "refresh_token": "refresh-2", "expires_in": 3600}`)
				return
			}
			fmt.Fprint(w, `{"access_token": "stale", "refresh_token": "refresh-1", "expires_in": 3600}`)
		}))
		defer oauth.Close()

		graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			graphCalls++
			w.Header().Set("Content-Type", "application/json")

			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"errors": [{"message": "Invalid token"}]}`)
				return
			}
			fmt.Fprint(w, `{"data": {"Viewer": {"id": 42, "name": "torii"}}}`)
		}))
		defer graph.Close()

		client, _ := newTestClient(graph.URL, oauth.URL)
		So(client.LoginWithCode(context.Background(), "whatever"), ShouldBeNil)

		Convey("When an authenticated request comes back 401", func() {
			viewer, err := client.Viewer(context.Background())

			Convey("Then one refresh and one retry resolve it", func() {
				So(err, ShouldBeNil)
				So(viewer.ID, ShouldEqual, 42)
				So(viewer.Name, ShouldEqual, "torii")
				So(refreshCalls, ShouldEqual, 1)
				So(graphCalls, ShouldEqual, 2)

				record, err := client.session.Token(context.Background())
				So(err, ShouldBeNil)
				So(record.AccessToken, ShouldEqual, "fresh")
				So(record.RefreshToken, ShouldEqual, "refresh-2")
			})
		})
	})
}

func TestGraphErrors(t *testing.T) {
	Convey("Given a GraphQL endpoint", t, func() {
		Convey("When the response carries a GraphQL error with status 200", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"data": null, "errors": [{"message": "Media not found"}]}`)
			}))
			defer server.Close()

			client, _ := newTestClient(server.URL, "")
			err := client.execute(context.Background(), searchByIDQuery, map[string]any{"id": 1}, false, nil)

			Convey("Then it surfaces as an HTTP error with the message", func() {
				var httpErr *apierr.HTTPError
				So(err, ShouldNotBeNil)
				So(errors.As(err, &httpErr), ShouldBeTrue)
				So(httpErr.Message, ShouldEqual, "Media not found")
			})
		})

		Convey("When the response body is not JSON", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<html>gateway error</html>`)
			}))
			defer server.Close()

			client, _ := newTestClient(server.URL, "")
			err := client.execute(context.Background(), viewerQuery, nil, false, nil)

			Convey("Then a parse error surfaces", func() {
				var parseErr *apierr.ParseError
				So(errors.As(err, &parseErr), ShouldBeTrue)
			})
		})
	})
}

func TestAnimeRoundTrip(t *testing.T) {
	Convey("Given a parsed anime", t, func() {
		var anime Anime
		fixture := `{
			"id": 21,
			"title": {"romaji": "One Piece", "native": "ワンピース"},
			"coverImage": {"extraLarge": "https://img.anilist.co/xl/21.png", "color": "#e4a15d"},
			"status": "RELEASING",
			"averageScore": 88
		}`
		So(json.Unmarshal([]byte(fixture), &anime), ShouldBeNil)

		Convey("Name falls back to romaji without an english title", func() {
			So(anime.Name(), ShouldEqual, "One Piece")
		})

		Convey("Re-encoding preserves identity and presentation fields", func() {
			encoded, err := json.Marshal(&anime)
			So(err, ShouldBeNil)

			var decoded Anime
			So(json.Unmarshal(encoded, &decoded), ShouldBeNil)
			So(decoded.ID, ShouldEqual, 21)
			So(decoded.CoverImage.ExtraLarge, ShouldEqual, anime.CoverImage.ExtraLarge)
			So(decoded.Status, ShouldEqual, "RELEASING")
			So(decoded.AverageScore, ShouldEqual, 88)
		})
	})
}
