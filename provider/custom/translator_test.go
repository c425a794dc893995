package custom

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	lua "github.com/yuin/gopher-lua"
)

func TestShowFromTable(t *testing.T) {
	Convey("showFromTable", t, func() {
		L := lua.NewState()
		defer L.Close()

		Convey("Should extract show from valid Lua table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("name", lua.LString("Bleach"))
			tbl.RawSetString("id", lua.LString("bleach-123"))
			tbl.RawSetString("episodes", lua.LNumber(366))

			show, err := showFromTable(tbl, 0)
			So(err, ShouldBeNil)
			So(show.Name, ShouldEqual, "Bleach")
			So(show.ID, ShouldEqual, "bleach-123")
			So(show.AvailableEpisodes.Sub, ShouldEqual, 366)
		})

		Convey("Should accept url as id fallback", func() {
			tbl := L.NewTable()
			tbl.RawSetString("name", lua.LString("Naruto"))
			tbl.RawSetString("url", lua.LString("https://example.com/naruto"))

			show, err := showFromTable(tbl, 0)
			So(err, ShouldBeNil)
			So(show.ID, ShouldEqual, "https://example.com/naruto")
		})

		Convey("Should read sub and dub counts from a table", func() {
			tbl := L.NewTable()
			tbl.RawSetString("name", lua.LString("One Piece"))
			tbl.RawSetString("id", lua.LString("one-piece"))

			episodes := L.NewTable()
			episodes.RawSetString("sub", lua.LNumber(1100))
			episodes.RawSetString("dub", lua.LNumber(1000))
			tbl.RawSetString("episodes", episodes)

			show, err := showFromTable(tbl, 0)
			So(err, ShouldBeNil)
			So(show.AvailableEpisodes.Sub, ShouldEqual, 1100)
			So(show.AvailableEpisodes.Dub, ShouldEqual, 1000)
		})

		Convey("Should fail when required field 'name' is missing", func() {
			tbl := L.NewTable()
			tbl.RawSetString("id", lua.LString("something"))

			_, err := showFromTable(tbl, 0)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLuaSourceSearch(t *testing.T) {
	Convey("Given a Lua state defining SearchShows", t, func() {
		L := lua.NewState()
		defer L.Close()

		err := L.DoString(`
			function SearchShows(query)
				return {
					{ name = "Frieren: " .. query, id = "frieren-1", episodes = 28 },
				}
			end
		`)
		So(err, ShouldBeNil)

		s := newLuaSource("testprovider", L)

		Convey("When shows are searched", func() {
			shows, err := s.SearchShows("beyond")

			Convey("Then the table translates to shows", func() {
				So(err, ShouldBeNil)
				So(shows, ShouldHaveLength, 1)
				So(shows[0].Name, ShouldEqual, "Frieren: beyond")
				So(shows[0].Source, ShouldEqual, s)
			})
		})
	})
}
