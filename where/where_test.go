package where

import (
	"path/filepath"
	"testing"

	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directory resolvers create what they return", t, func() {
		for name, resolve := range map[string]func() string{
			"Config": Config,
			"State":  State,
			"Logs":   Logs,
			"Temp":   Temp,
		} {
			Convey(name, func() {
				path := resolve()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}
	})

	Convey("Resume lives in the state directory", t, func() {
		So(filepath.Dir(Resume()), ShouldEqual, State())
	})

	Convey("MAFILU_CONFIG_PATH overrides the config directory", t, func() {
		t.Setenv(EnvConfigPath, "/tmp/mafilu-test-config")
		So(Config(), ShouldEqual, "/tmp/mafilu-test-config")
	})
}
