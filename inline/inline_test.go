package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/torii-cli/torii/source"
)

type fakeSource struct {
	shows []*source.Show
}

func (f *fakeSource) Name() string { return "fake" }
func (f *fakeSource) ID() string   { return "fake test" }
func (f *fakeSource) SearchShows(string) ([]*source.Show, error) {
	for _, s := range f.shows {
		s.Source = f
	}
	return f.shows, nil
}

func TestParseShowPicker(t *testing.T) {
	Convey("ParseShowPicker", t, func() {
		shows := []*source.Show{
			{Name: "Alpha"},
			{Name: "Beta"},
			{Name: "Gamma"},
		}

		Convey("first picks the first show", func() {
			picker, err := ParseShowPicker("first", "")
			So(err, ShouldBeNil)
			So(picker(shows).Name, ShouldEqual, "Alpha")
		})

		Convey("last picks the last show", func() {
			picker, err := ParseShowPicker("last", "")
			So(err, ShouldBeNil)
			So(picker(shows).Name, ShouldEqual, "Gamma")
		})

		Convey("exact picks by name", func() {
			picker, err := ParseShowPicker("exact", "Beta")
			So(err, ShouldBeNil)
			So(picker(shows).Name, ShouldEqual, "Beta")
			So(picker([]*source.Show{{Name: "Other"}}), ShouldBeNil)
		})

		Convey("index clamps to the last show", func() {
			picker, err := ParseShowPicker("index", "99")
			So(err, ShouldBeNil)
			So(picker(shows).Name, ShouldEqual, "Gamma")
		})

		Convey("unknown kind errors", func() {
			_, err := ParseShowPicker("median", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRunJson(t *testing.T) {
	Convey("Given a provider with results", t, func() {
		src := &fakeSource{shows: []*source.Show{
			{Name: "Alpha", ID: "a"},
			{Name: "Beta", ID: "b"},
		}}

		Convey("When run in JSON mode with a picker", func() {
			picker, err := ParseShowPicker("first", "")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(context.Background(), &Options{
				Out:        &buf,
				Sources:    []source.Source{src},
				Json:       true,
				Query:      "alpha",
				ShowPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)

			Convey("Then the output carries the query and the picked show", func() {
				var output Output
				So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
				So(output.Query, ShouldEqual, "alpha")
				So(output.Result, ShouldHaveLength, 1)
				So(output.Result[0].Show.Name, ShouldEqual, "Alpha")
				So(output.Result[0].Source, ShouldEqual, "fake")
			})
		})
	})
}
