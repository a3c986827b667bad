// Package cmd implements the command-line interface of mafilu.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/mafilu-cli/mafilu/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().String("id", "", "Video identifier that resume positions are stored under (defaults to the manifest URL)")
	rootCmd.Flags().StringP("title", "t", "", "Title shown while paused and in the engine window")
	rootCmd.Flags().StringP("description", "d", "", "Description shown while paused")
	rootCmd.Flags().String("poster", "", "Poster image URL shown while loading")
	rootCmd.Flags().Float64("duration-hint", 0, "Duration in seconds to show before the manifest is read")

	rootCmd.Flags().Bool("autoplay", true, "Start playback as soon as metadata is available")
	lo.Must0(viper.BindPFlag(key.PlayerAutoplay, rootCmd.Flags().Lookup("autoplay")))

	rootCmd.Flags().BoolP("resume", "r", true, "Remember and restore the playback position")
	lo.Must0(viper.BindPFlag(key.ResumeEnable, rootCmd.Flags().Lookup("resume")))

	rootCmd.Flags().Bool("native-hls", false, "Let the engine open the manifest itself")
	lo.Must0(viper.BindPFlag(key.PlayerNativeHLS, rootCmd.Flags().Lookup("native-hls")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.Mafilu + " [manifest-url]",
	Short: "Play HLS movies from the terminal",
	Long: style.New().Bold(true).Foreground(color.Primary).Render(constant.Mafilu) + "\n" +
		style.New().Italic(true).Foreground(color.PrimaryGlow).Render("    - Play HLS movies from the terminal, picking up where you left off"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		if !util.IsInteractive() {
			handleErr(errors.New("mafilu needs an interactive terminal"))
		}

		CheckDependencies()

		options, release, err := playOptions(cmd, args[0])
		handleErr(err)
		err = play(options)
		release()
		handleErr(err)
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
