package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	// confirm asks before deleting user data.
	confirm bool
}

var clearTargets = []clearTarget{
	{"resume positions", "resume", mo.Some("r"), where.Resume, true},
	{"log files", "logs", mo.Some("l"), where.Logs, false},
	{"temp directory", "temp", mo.Some("t"), where.Temp, false},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear stored positions, logs and temporary files",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool
		yes := lo.Must(cmd.Flags().GetBool("yes"))

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}
			anyCleared = true

			if target.confirm && !yes {
				var sure bool
				handleErr(survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Delete all %s?", target.name),
				}, &sure))
				if !sure {
					continue
				}
			}

			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			exists, err := filesystem.API().Exists(target.location())
			if err == nil && exists {
				err = util.Delete(target.location())
			}
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
