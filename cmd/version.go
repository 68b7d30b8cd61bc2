package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.SetOut(os.Stdout)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}
		defer version.Notify()

		accent := style.Fg(color.Purple)
		cmd.Println(accent("▇▇▇"), accent(constant.Kolekk))
		cmd.Println()

		for _, row := range [][2]string{
			{"Version", constant.Version},
			{"Git Commit", constant.Revision},
			{"Build Date", strings.TrimSpace(constant.BuiltAt)},
			{"Built By", constant.BuiltBy},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		} {
			cmd.Printf("  %s %s\n", style.Faint(fmt.Sprintf("%-12s", row[0])), style.Bold(row[1]))
		}
	},
}
