package cmd

import (
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/config"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/where"
)

func init() {
	rootCmd.AddCommand(envCmd)

	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are unset")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables kolekk reads",
	Run: func(cmd *cobra.Command, args []string) {
		names := lo.Map(config.EnvExposed, func(k string, _ int) string {
			f := config.Default[k]
			return f.Env()
		})
		names = append(names, where.EnvConfigPath)
		sort.Strings(names)

		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		name := style.New().Bold(true).Foreground(color.Purple).Render

		for _, n := range names {
			value, ok := os.LookupEnv(n)
			if (setOnly && !ok) || (unsetOnly && ok) {
				continue
			}

			cmd.Print(name(n), "=")
			if ok {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
