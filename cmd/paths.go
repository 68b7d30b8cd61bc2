package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/util"
	"github.com/thrombe/kolekk/where"
)

// location is a directory kolekk owns, addressable by a flag on
// "where" and, when clearable, on "clear".
type location struct {
	flag      string
	short     string
	title     string
	path      func() string
	hidden    bool
	clearable bool
}

var locations = []location{
	{flag: "config", short: "c", title: "Config", path: where.Config},
	{flag: "sources", short: "s", title: "Sources", path: where.Sources},
	{flag: "logs", short: "l", title: "Logs", path: where.Logs},
	{flag: "store", title: "Store", path: where.Store, clearable: true},
	{flag: "queries", short: "q", title: "Queries", path: where.Queries, clearable: true},
	{flag: "cache", title: "Cache", path: where.Cache, hidden: true, clearable: true},
	{flag: "temp", short: "t", title: "Temp", path: where.Temp, hidden: true, clearable: true},
}

func addLocationFlags(cmd *cobra.Command, locs []location, usage func(location) string) {
	for _, l := range locs {
		cmd.Flags().BoolP(l.flag, l.short, false, usage(l))
	}
}

func selectedLocations(cmd *cobra.Command, locs []location) []location {
	return lo.Filter(locs, func(l location, _ int) bool {
		return lo.Must(cmd.Flags().GetBool(l.flag))
	})
}

func init() {
	rootCmd.AddCommand(whereCmd)

	addLocationFlags(whereCmd, locations, func(l location) string { return l.title + " path" })
	for _, l := range locations {
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string { return l.flag })...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where kolekk keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		if picked := selectedLocations(cmd, locations); len(picked) > 0 {
			cmd.Println(picked[0].path())
			return
		}

		heading := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l location, _ int) bool { return l.hidden })
		for i, l := range visible {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(heading(l.title+"?"), style.Fg(color.Yellow)("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	addLocationFlags(clearCmd, lo.Filter(locations, func(l location, _ int) bool { return l.clearable }),
		func(l location) string { return "clear the " + l.flag + " directory" })
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached, remembered or stored data",
	Run: func(cmd *cobra.Command, args []string) {
		picked := selectedLocations(cmd, lo.Filter(locations, func(l location, _ int) bool { return l.clearable }))
		if len(picked) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, l := range picked {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), l.flag))
			err := util.Delete(l.path())
			erase()
			if err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
			fmt.Println(icon.Get(icon.Success), util.Capitalize(l.flag), "cleared")
		}
	},
}
