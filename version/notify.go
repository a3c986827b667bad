package version

import (
	"fmt"

	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. Lookup failures are
// only logged.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		log.Warnf("version check: %v", err)
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/mafilu-cli/mafilu/releases/tag/v"+latest),
	)
}
