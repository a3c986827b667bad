package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestRedisPassword(t *testing.T) {
	keyring.MockInit()

	Convey("Given an empty keyring", t, func() {
		So(DeleteRedisPassword(), ShouldBeNil)

		Convey("The password is empty, not an error", func() {
			password, err := RedisPassword()
			So(err, ShouldBeNil)
			So(password, ShouldBeEmpty)
		})

		Convey("A stored password can be read back and deleted", func() {
			So(SetRedisPassword("hunter2"), ShouldBeNil)
			password, err := RedisPassword()
			So(err, ShouldBeNil)
			So(password, ShouldEqual, "hunter2")

			So(DeleteRedisPassword(), ShouldBeNil)
			password, _ = RedisPassword()
			So(password, ShouldBeEmpty)
		})
	})
}
