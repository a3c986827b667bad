package config

import (
	"errors"
	"testing"

	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	convey.Convey("Config Setup", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)

		convey.Convey("Every registered field has a value after setup", func() {
			for name := range Default {
				convey.So(viper.Get(name), convey.ShouldNotBeNil)
			}
		})

		convey.Convey("Streaming defaults are usable as-is", func() {
			convey.So(viper.GetInt(key.StreamFragmentRetries), convey.ShouldEqual, 3)
			convey.So(viper.GetString(key.ResumeBackend), convey.ShouldEqual, "file")
			convey.So(viper.GetBool(key.PlayerNativeHLS), convey.ShouldBeFalse)
		})

		convey.Convey("EnvKeyReplacer converts dots to underscores", func() {
			convey.So(EnvKeyReplacer.Replace("stream.fragment_retries"), convey.ShouldEqual, "stream_fragment_retries")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	convey.Convey("Given a registered field", t, func() {
		field := Default[key.ResumeRedisAddr]

		convey.Convey("Its env name is prefixed and upper-cased", func() {
			convey.So(field.Env(), convey.ShouldEqual, "MAFILU_RESUME_REDIS_ADDR")
		})

		convey.Convey("Its type name follows the default value", func() {
			convey.So(field.typeName(), convey.ShouldEqual, "string")
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Registered defaults are valid", t, func() {
		for name, field := range Default {
			convey.So(Validate(name, field.Value), convey.ShouldBeNil)
		}
	})

	convey.Convey("Out of range numbers are rejected", t, func() {
		convey.So(Validate(key.PlayerVolume, 101), convey.ShouldNotBeNil)
		convey.So(Validate(key.StreamABRSafetyFactor, 0), convey.ShouldNotBeNil)
		convey.So(Validate(key.PlayerVolume, 40), convey.ShouldBeNil)
	})

	convey.Convey("Unknown choices are rejected", t, func() {
		convey.So(Validate(key.ResumeBackend, "sqlite"), convey.ShouldNotBeNil)
		convey.So(Validate(key.ResumeBackend, "redis"), convey.ShouldBeNil)
		convey.So(Validate(key.Player, "vlc"), convey.ShouldBeNil)
	})
}

func TestParse(t *testing.T) {
	convey.Convey("Values are converted to the type of the default", t, func() {
		v, err := Parse(key.PlayerVolume, " 60 ")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, 60)

		v, err = Parse(key.StreamABRInitialBandwidth, "2_500_000")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, 2_500_000)

		v, err = Parse(key.PlayerAutoplay, "false")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, false)

		v, err = Parse(key.ResumeRedisAddr, "cache:6380")
		convey.So(err, convey.ShouldBeNil)
		convey.So(v, convey.ShouldEqual, "cache:6380")
	})

	convey.Convey("Malformed and invalid values are rejected", t, func() {
		_, err := Parse(key.PlayerVolume, "loud")
		convey.So(err, convey.ShouldNotBeNil)
		_, err = Parse(key.PlayerVolume, "140")
		convey.So(err, convey.ShouldNotBeNil)
		_, err = Parse(key.PlayerAutoplay, "maybe")
		convey.So(err, convey.ShouldNotBeNil)
		_, err = Parse(key.IconsVariant, "ascii")
		convey.So(err, convey.ShouldNotBeNil)
	})

	convey.Convey("Unknown keys are reported", t, func() {
		_, err := Parse("player.colour", "red")
		convey.So(errors.Is(err, ErrUnknownKey), convey.ShouldBeTrue)
	})
}

func TestSections(t *testing.T) {
	convey.Convey("Fields are grouped by the part before the first dot", t, func() {
		sections := Sections()
		convey.So(sections, convey.ShouldContainKey, "player")
		convey.So(sections, convey.ShouldContainKey, "stream")
		convey.So(sections, convey.ShouldContainKey, "resume")
		convey.So(sections, convey.ShouldContainKey, "logs")

		total := 0
		for name, fields := range sections {
			total += len(fields)
			for i, field := range fields {
				convey.So(Section(field.Key), convey.ShouldEqual, name)
				if i > 0 {
					convey.So(fields[i-1].Key, convey.ShouldBeLessThan, field.Key)
				}
			}
		}
		convey.So(total, convey.ShouldEqual, len(Default))
	})
}

func TestReset(t *testing.T) {
	convey.Convey("Given changed settings", t, func() {
		convey.So(Setup(), convey.ShouldBeNil)
		viper.Set(key.PlayerVolume, 20)
		viper.Set(key.LogsLevel, "trace")

		convey.Convey("Resetting one key leaves the others", func() {
			convey.So(Reset(key.PlayerVolume), convey.ShouldBeNil)
			convey.So(viper.GetInt(key.PlayerVolume), convey.ShouldEqual, 100)
			convey.So(viper.GetString(key.LogsLevel), convey.ShouldEqual, "trace")
		})

		convey.Convey("Resetting without keys restores everything", func() {
			convey.So(Reset(), convey.ShouldBeNil)
			convey.So(viper.GetString(key.LogsLevel), convey.ShouldEqual, "info")
		})

		convey.Convey("Unknown keys are rejected", func() {
			convey.So(Reset("player.colour"), convey.ShouldNotBeNil)
		})

		convey.Convey("Saving creates the config file", func() {
			convey.So(Save(), convey.ShouldBeNil)
			exists, err := filesystem.API().Exists(Path())
			convey.So(err, convey.ShouldBeNil)
			convey.So(exists, convey.ShouldBeTrue)
		})
	})
}
