package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/inline"
	"github.com/thrombe/kolekk/query"
	"github.com/thrombe/kolekk/searcher"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "The query to search for. Empty lists the default results of the kind")
	searchCmd.Flags().IntP("pages", "p", 1, "How many pages to fetch, 0 fetches until the results run out")
	searchCmd.Flags().StringP("filter", "f", "", "Criteria for selecting several results")
	searchCmd.Flags().StringP("pick", "P", "", "Criteria for selecting a single result")
	searchCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	searchCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(searchCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return query.SuggestMany(args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

// searchCmd runs one search without the TUI.
var searchCmd = &cobra.Command{
	Use:   "search <kind> [binding]",
	Short: "Run a search non-interactively and print the results",
	Long: `Search one kind and print what was found, one result per line or as JSON.

Filters:
  first - first result
  last - last result
  all - every result
  [number] - the result at an index (starting from 0)
  [from]-[to] - results in a range of indexes
  @[substring]@ - results whose title contains the substring

Pickers:
  first - first result
  last - last result
  exact - the result titled exactly as the query
  [number] - the result at an index (starting from 0)

The filter runs before the picker.`,
	Example: `  kolekk search movies -q "blade runner" --json
  kolekk search objects bookmarks -p 0 -f @go@
  kolekk search scripted mysource -q naruto -P first`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeSpec,
	Run: func(cmd *cobra.Command, args []string) {
		q := lo.Must(cmd.Flags().GetString("query"))

		options := &inline.Options{
			Spec:  parseSpec(args),
			Query: q,
			Json:  lo.Must(cmd.Flags().GetBool("json")),
			Pages: lo.Must(cmd.Flags().GetInt("pages")),
		}

		if description := lo.Must(cmd.Flags().GetString("filter")); description != "" {
			filter, err := inline.ParseFilter(description)
			handleErr(err)
			options.Filter = mo.Some(filter)
		}

		if description := lo.Must(cmd.Flags().GetString("pick")); description != "" {
			picker, err := inline.ParsePicker(description, q)
			handleErr(err)
			options.Picker = mo.Some(picker)
		}

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}
		options.Out = writer

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			return inline.Run(ctx, d, options)
		})
	},
}

func init() {
	searchCmd.AddCommand(searchSchemaCmd)
}

// searchSchemaCmd prints the JSON schema of search --json.
var searchSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the structured search output",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(json.NewEncoder(os.Stdout).Encode(inline.Schema()))
	},
}
