package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/provider/custom"
	"github.com/thrombe/kolekk/style"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("query", "q", "", "Query passed to the script's search function")
	runCmd.Flags().IntP("page", "p", 1, "Page passed to the script's search function")
	runCmd.Flags().BoolP("json", "j", false, "Print the items as JSON")
	runCmd.SetOut(os.Stdout)
}

// runCmd loads a script file and runs one search with it, for script development.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run one search with a local Lua catalog script",
	Long: `Load a catalog script in the Lua 5.1 virtual machine and call its search function once.
Useful while writing or debugging a script before installing it.`,
	Args:    cobra.ExactArgs(1),
	Example: "  kolekk run ./test.lua -q naruto -p 2",
	Run: func(cmd *cobra.Command, args []string) {
		source, err := custom.LoadSource(args[0])
		handleErr(err)
		defer source.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		items, err := source.Search(ctx, lo.Must(cmd.Flags().GetString("query")), lo.Must(cmd.Flags().GetInt("page")))
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			handleErr(enc.Encode(items))
			return
		}

		for _, item := range items {
			cmd.Printf("%s %s\n", item.Title, style.Fg(color.Gray)(item.URL))
		}
		cmd.Printf("%d item(s), page limit %d\n", len(items), source.Limit())
	},
}
