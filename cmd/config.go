package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/config"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/style"
)

func completeConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	keys := lo.Keys(config.Default)
	sort.Strings(keys)
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func mustField(k string) config.Field {
	f, err := config.Lookup(k)
	handleErr(err)
	return f
}

func done(format string, args ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd groups the commands that read and edit kolekk.toml.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit settings",
}

func init() {
	configCmd.AddCommand(configInfoCmd)

	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:               "info [key...]",
	Short:             "Describe settings with their current and default values",
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields := lo.Values(config.Default)
		if len(args) > 0 {
			fields = lo.Map(args, func(k string, _ int) config.Field { return mustField(k) })
		}
		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(fields[i].Pretty())
		}
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value...>",
	Short:             "Change a setting and save it",
	Example:           "  kolekk config set tachidesk.url http://localhost:4567\n  kolekk config set sources.default mysource othersource",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f := mustField(args[0])

		value, err := config.Parse(f, args[1:])
		handleErr(err)

		viper.Set(f.Key, value)
		handleErr(config.Save())
		done("set %s to %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(viper.Get(mustField(args[0]).Key))
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().BoolP("all", "a", false, "Reset every setting")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completeConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			handleErr(fmt.Errorf("name the keys to reset or pass --all"))
		}

		fields := lo.Values(config.Default)
		if !all {
			fields = lo.Map(args, func(k string, _ int) config.Field { return mustField(k) })
		}

		for _, f := range fields {
			viper.Set(f.Key, f.Value)
		}
		handleErr(config.Save())

		if all {
			done("reset every setting")
			return
		}
		for _, f := range fields {
			done("reset %s to %s", style.Fg(color.Purple)(f.Key), style.Fg(color.Yellow)(fmt.Sprint(f.Value)))
		}
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)

	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write every current setting to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		exists, err := filesystem.API().Exists(config.Path())
		handleErr(err)
		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, pass --force to overwrite it", config.Path()))
		}

		handleErr(viper.WriteConfigAs(config.Path()))
		done("wrote config to %s", config.Path())
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
		handleErr(config.Remove())
		done("deleted %s", config.Path())
	},
}
