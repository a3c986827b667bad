package cmd

import (
	"os"
	"strings"

	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/config"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envName is the variable that overrides a configuration key.
func envName(configKey string) string {
	if configKey == where.EnvConfigPath {
		return configKey
	}
	return strings.ToUpper(constant.Mafilu + "_" + config.EnvKeyReplacer.Replace(configKey))
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the supported environment variables",
	Long:  `Display the supported environment variables and their current values.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		exposed := append(slices.Clone(config.EnvExposed), where.EnvConfigPath)
		slices.Sort(exposed)

		for _, name := range exposed {
			env := envName(name)
			value := os.Getenv(env)
			present := value != ""

			if (!present && setOnly) || (present && unsetOnly) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
