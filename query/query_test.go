package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given query history", t, func() {
		q1 := "frieren"
		q2 := "fullmetal alchemist"

		Convey("When remembering queries", func() {
			err := Remember(q1, 1)
			So(err, ShouldBeNil)
			err = Remember(q2, 10)
			So(err, ShouldBeNil)

			Convey("Then suggestions should be sorted by rank", func() {
				suggestionCache = make(map[string][]*queryRecord)

				s := SuggestMany("full")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 1)
				So(s[0], ShouldEqual, "fullmetal alchemist")
			})

			Convey("It sanitizes input", func() {
				So(sanitize("  FRIEREN  "), ShouldEqual, "frieren")
			})
		})
	})
}
