package network

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/key"
)

// The shared client is built once, so the timeout must be configured before
// the first Client() call in this package's tests.
func init() {
	viper.Set(key.NetworkTimeoutSeconds, 3)
}

func TestClient(t *testing.T) {
	Convey("Client", t, func() {
		Convey("Honors the configured timeout", func() {
			So(Client().Timeout, ShouldEqual, 3*time.Second)
		})

		Convey("Is built once and shared", func() {
			So(Client(), ShouldEqual, Client())
		})
	})
}

func TestTimeout(t *testing.T) {
	Convey("timeout", t, func() {
		Convey("Converts configured seconds", func() {
			So(timeout(), ShouldEqual, 3*time.Second)
		})

		Convey("Falls back to the default when unset", func() {
			viper.Set(key.NetworkTimeoutSeconds, 0)
			defer viper.Set(key.NetworkTimeoutSeconds, 3)
			So(timeout(), ShouldEqual, defaultTimeout)
		})
	})
}
