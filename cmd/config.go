package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/mafilu-cli/mafilu/color"
	"github.com/mafilu-cli/mafilu/config"
	"github.com/mafilu-cli/mafilu/filesystem"
	"github.com/mafilu-cli/mafilu/icon"
	"github.com/mafilu-cli/mafilu/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// lookupField resolves a key, suggesting the closest registered one on a typo.
func lookupField(name string) (config.Field, error) {
	field, err := config.Lookup(name)
	if !errors.Is(err, config.ErrUnknownKey) {
		return field, err
	}

	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	return field, fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

func completionConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func success(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringP("section", "s", "", "Only show keys of this section (player, stream, resume, ...)")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print fields as JSON")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("section", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(config.Sections()), cobra.ShellCompDirectiveNoFileComp
	}))
}

var configInfoCmd = &cobra.Command{
	Use:               "info [key...]",
	Short:             "Describe settings grouped by section",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		sections := config.Sections()

		if len(args) > 0 {
			sections = make(map[string][]config.Field)
			for _, name := range args {
				field, err := lookupField(name)
				handleErr(err)
				section := config.Section(name)
				sections[section] = append(sections[section], field)
			}
		}

		if only := lo.Must(cmd.Flags().GetString("section")); only != "" {
			fields, ok := sections[only]
			if !ok {
				handleErr(fmt.Errorf("no section %s, available: %v", only, lo.Keys(config.Sections())))
			}
			sections = map[string][]config.Field{only: fields}
		}

		names := lo.Keys(sections)
		sort.Strings(names)

		if lo.Must(cmd.Flags().GetBool("json")) {
			var fields []*config.Field
			for _, name := range names {
				for i := range sections[name] {
					fields = append(fields, &sections[name][i])
				}
			}
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, name := range names {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(style.Bold(style.Fg(color.Purple)("[" + name + "]")))
			for _, field := range sections[name] {
				fmt.Println()
				fmt.Println(field.Pretty())
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Change a setting",
	Example:           "  mafilu config set player.volume 60\n  mafilu config set resume.backend redis",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		_, err := lookupField(name)
		handleErr(err)

		value, err := config.Parse(name, args[1])
		handleErr(err)

		viper.Set(name, value)
		handleErr(config.Save())
		success("set %s to %s", style.Fg(color.Purple)(name), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the effective value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		_, err := lookupField(args[0])
		handleErr(err)
		fmt.Println(viper.Get(args[0]))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		switch {
		case all && len(args) > 0:
			handleErr(errors.New("pass keys or --all, not both"))
		case !all && len(args) == 0:
			handleErr(errors.New("pass the keys to reset, or --all"))
		}

		for _, name := range args {
			_, err := lookupField(name)
			handleErr(err)
		}
		handleErr(config.Reset(args...))
		handleErr(config.Save())

		if all {
			success("reset every setting")
			return
		}
		for _, name := range args {
			success("reset %s to %s", style.Fg(color.Purple)(name), style.Fg(color.Yellow)(fmt.Sprint(config.Default[name].Value)))
		}
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.Path()
		if lo.Must(cmd.Flags().GetBool("force")) {
			exists, err := filesystem.API().Exists(path)
			handleErr(err)
			if exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(config.Path()))
		success("deleted %s", config.Path())
	},
}
