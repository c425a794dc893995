package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.HistorySaveOnTrack, true)
}

func TestHistory(t *testing.T) {
	Convey("Given a tracking journal", t, func() {
		entry := &SavedEntry{
			Integration: "anilist",
			MediaID:     "21",
			Name:        "One Piece",
			Progress:    1090,
			Status:      "CURRENT",
		}

		Convey("When an update is saved", func() {
			So(Save(entry), ShouldBeNil)

			saved, err := Get()
			So(err, ShouldBeNil)
			So(saved[entry.encode()].Progress, ShouldEqual, 1090)
			So(saved[entry.encode()].UpdatedAt.IsZero(), ShouldBeFalse)

			Convey("Then a later update for the same media replaces it", func() {
				later := *entry
				later.Progress = 1091
				So(Save(&later), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved[entry.encode()].Progress, ShouldEqual, 1091)
			})

			Convey("Then removal deletes the entry", func() {
				So(Remove(entry), ShouldBeNil)

				saved, err := Get()
				So(err, ShouldBeNil)
				_, ok := saved[entry.encode()]
				So(ok, ShouldBeFalse)
			})
		})
	})
}
