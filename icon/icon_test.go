package icon

import (
	"testing"

	"github.com/mafilu-cli/mafilu/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given the play icon", t, func() {
		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					So(Get(Play), ShouldNotBeEmpty)
				})
			}
		})

		Convey("It is empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Play), ShouldBeEmpty)
		})
	})

	Convey("Every icon is defined for every variant", t, func() {
		for i := Play; i <= Progress; i++ {
			def, ok := icons[i]
			So(ok, ShouldBeTrue)
			So(def.plain, ShouldNotBeEmpty)
		}
	})
}
