package cmd

import (
	"context"

	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/mini"
	"github.com/thrombe/kolekk/searcher"
)

func init() {
	rootCmd.AddCommand(miniCmd)
}

// miniCmd is the prompt based interface.
var miniCmd = &cobra.Command{
	Use:               "mini [kind] [binding]",
	Short:             "Search with plain terminal prompts instead of the full screen interface",
	Long:              `Pick a kind, type a query and choose among the results one prompt at a time.`,
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completeSpec,
	Run: func(cmd *cobra.Command, args []string) {
		options := mini.Options{}
		if len(args) > 0 {
			options.Spec = mo.Some(parseSpec(args))
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			return mini.Run(ctx, d, &options)
		})
	},
}
