package token

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestRecord(t *testing.T) {
	Convey("Record", t, func() {
		now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

		Convey("FromGrant derives the absolute expiry once", func() {
			record := FromGrant("access", "refresh", 900, now)
			So(record.ExpiresAt, ShouldEqual, now.Add(15*time.Minute))
			So(record.Valid(now), ShouldBeTrue)
		})

		Convey("An expired record is invalid even with a token present", func() {
			record := FromGrant("access", "refresh", 900, now)
			So(record.Valid(now.Add(time.Hour)), ShouldBeFalse)
			So(record.AccessToken, ShouldNotBeEmpty)
		})

		Convey("A record without an access token is never valid", func() {
			record := Record{ExpiresAt: now.Add(time.Hour)}
			So(record.Valid(now), ShouldBeFalse)
		})

		Convey("Expiry boundary counts as expired", func() {
			record := FromGrant("access", "", 900, now)
			So(record.Valid(record.ExpiresAt), ShouldBeFalse)
		})
	})
}

func TestKeyringStore(t *testing.T) {
	Convey("Keyring store", t, func() {
		store := Keyring("anilist-test")
		So(store.Clear(), ShouldBeNil)
		So(store.ClearCredential(), ShouldBeNil)

		Convey("Load before any save reports not found", func() {
			_, err := store.Load()
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Save then Load round-trips the record", func() {
			record := FromGrant("access", "refresh", 900, time.Now().UTC())
			So(store.Save(record), ShouldBeNil)

			loaded, err := store.Load()
			So(err, ShouldBeNil)
			So(loaded.AccessToken, ShouldEqual, "access")
			So(loaded.RefreshToken, ShouldEqual, "refresh")
		})

		Convey("Clear is idempotent", func() {
			So(store.Clear(), ShouldBeNil)
			So(store.Clear(), ShouldBeNil)

			_, err := store.Load()
			So(err, ShouldEqual, ErrNotFound)
		})

		Convey("Credentials are stored independently of the record", func() {
			credential := Credential{ClientID: "id", Username: "user", Password: "hunter2"}
			So(store.SaveCredential(credential), ShouldBeNil)

			loaded, err := store.LoadCredential()
			So(err, ShouldBeNil)
			So(loaded.Username, ShouldEqual, "user")

			_, err = store.Load()
			So(err, ShouldEqual, ErrNotFound)

			So(store.ClearCredential(), ShouldBeNil)
		})
	})
}
