package apierr

import (
	"context"
	"fmt"
	"net"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClassification(t *testing.T) {
	Convey("Error classification helpers", t, func() {
		Convey("Credential errors are recognized through wrapping", func() {
			err := fmt.Errorf("login: %w", &CredentialError{Reason: InvalidPassword})
			So(IsCredential(err), ShouldBeTrue)
			So(IsNetwork(err), ShouldBeFalse)
		})

		Convey("Token errors are recognized", func() {
			err := &TokenError{Reason: RefreshFailed}
			So(IsToken(err), ShouldBeTrue)
			So(IsCredential(err), ShouldBeFalse)
		})

		Convey("Unauthorized matches only status 401", func() {
			So(IsUnauthorized(&HTTPError{Status: 401}), ShouldBeTrue)
			So(IsUnauthorized(&HTTPError{Status: 403}), ShouldBeFalse)
		})
	})
}

func TestFromTransport(t *testing.T) {
	Convey("FromTransport", t, func() {
		Convey("nil passes through", func() {
			So(FromTransport(nil), ShouldBeNil)
		})

		Convey("DNS failures are classified", func() {
			err := FromTransport(&net.DNSError{Err: "no such host", Name: "graphql.anilist.co"})
			var netErr *NetworkError
			So(err, ShouldHaveSameTypeAs, netErr)
			So(err.(*NetworkError).Reason, ShouldEqual, DNSFailure)
		})

		Convey("Deadline exceeded is a timeout", func() {
			err := FromTransport(fmt.Errorf("do: %w", context.DeadlineExceeded))
			So(err.(*NetworkError).Reason, ShouldEqual, Timeout)
		})

		Convey("Everything else is a connection failure", func() {
			err := FromTransport(fmt.Errorf("connection reset"))
			So(err.(*NetworkError).Reason, ShouldEqual, ConnectionFailed)
		})
	})
}
