package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/torii-cli/torii/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("anilist.page.size")
			So(result, ShouldEqual, "anilist_page_size")
		})

		Convey("Env names should carry the application prefix", func() {
			field := Default["network.timeout_seconds"]
			So(field.Env(), ShouldEqual, "TORII_NETWORK_TIMEOUT_SECONDS")
		})
	})
}
