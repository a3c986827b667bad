package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mafilu-cli/mafilu/auth"
	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/config"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/resume"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(redisCmd)
}

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Share resume positions between machines through redis",
}

func init() {
	redisCmd.AddCommand(redisSetupCmd)
}

var redisSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the redis backend and store its password in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		var answers struct {
			Addr     string `survey:"addr"`
			DB       string `survey:"db"`
			Password string `survey:"password"`
		}

		handleErr(survey.Ask([]*survey.Question{
			{
				Name:     "addr",
				Prompt:   &survey.Input{Message: "Redis address", Default: viper.GetString(key.ResumeRedisAddr)},
				Validate: survey.Required,
			},
			{
				Name:   "db",
				Prompt: &survey.Input{Message: "Database number", Default: strconv.Itoa(viper.GetInt(key.ResumeRedisDB))},
				Validate: func(ans interface{}) error {
					db, err := strconv.Atoi(fmt.Sprint(ans))
					if err != nil {
						return fmt.Errorf("not a number: %v", ans)
					}
					return config.Validate(key.ResumeRedisDB, db)
				},
			},
			{
				Name:   "password",
				Prompt: &survey.Password{Message: "Password (leave empty for none)"},
			},
		}, &answers))

		db, _ := strconv.Atoi(answers.DB)
		storage := resume.NewRedis(redis.NewClient(&redis.Options{
			Addr:     answers.Addr,
			Password: answers.Password,
			DB:       db,
		}))
		err := storage.Ping()
		_ = storage.Close()
		if err != nil {
			handleErr(fmt.Errorf("connect to %s: %w", answers.Addr, err))
		}

		handleErr(auth.SetRedisPassword(answers.Password))

		viper.Set(key.ResumeRedisAddr, answers.Addr)
		viper.Set(key.ResumeRedisDB, db)
		viper.Set(key.ResumeBackend, resume.BackendRedis)
		handleErr(config.Save())

		fmt.Printf(
			"%s resume positions are now stored in %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(answers.Addr),
		)
	},
}

func init() {
	redisCmd.AddCommand(redisForgetCmd)
}

var redisForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the redis password from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteRedisPassword())
		fmt.Printf("%s redis password removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
