package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/resume"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resumeCmd)
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Inspect stored playback positions",
}

func init() {
	resumeCmd.AddCommand(resumeShowCmd)
	resumeShowCmd.Flags().BoolP("json", "j", false, "Print the raw record as JSON")
	resumeShowCmd.SetOut(os.Stdout)
}

var resumeShowCmd = &cobra.Command{
	Use:   "show <video-id>",
	Short: "Show the stored position of a video and whether it would be resumed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		storage, err := resume.FromConfig()
		handleErr(err)
		if closer, ok := storage.(interface{ Close() error }); ok {
			defer util.Ignore(closer.Close)
		}

		clock := clockwork.NewRealClock()
		found, err := resume.New(storage, clock).Raw(args[0])
		handleErr(err)

		record, ok := found.Get()
		if !ok {
			cmd.Printf("%s no position stored for %s (%s backend)\n",
				icon.Get(icon.Fail), style.Fg(color.Purple)(args[0]), viper.GetString(key.ResumeBackend))
			return
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(record))
			return
		}

		honored := style.Fg(color.Green)("yes")
		if !record.Honored(clock.Now()) {
			honored = style.Fg(color.Red)("no")
		}

		cmd.Printf("%s      %s / %s\n", style.Faint("Position"), style.Bold(util.FormatTime(record.Time)), util.FormatTime(record.Duration))
		cmd.Printf("%s      %s\n", style.Faint("Saved at"), record.SavedAt().Local().Format("2006-01-02 15:04:05"))
		cmd.Printf("%s      %s\n", style.Faint("Resumable"), honored)
	},
}

func init() {
	resumeCmd.AddCommand(resumeSchemaCmd)
}

var resumeSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of stored records",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			return fmt.Sprintf("resume.%s", t.Name())
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&resume.Record{})))
	},
}
