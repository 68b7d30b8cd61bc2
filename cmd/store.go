package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/util"
)

func init() {
	rootCmd.AddCommand(storeCmd)
}

// storeCmd groups commands that edit the local store directly.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Add, list and remove objects of the local store",
}

func init() {
	storeCmd.AddCommand(storeAddCmd)

	storeAddCmd.Flags().StringP("facet", "f", "", "Facet the object belongs to")
	storeAddCmd.Flags().StringP("title", "t", "", "Searchable title of the object")
	storeAddCmd.Flags().StringP("data", "d", "", "JSON payload stored with the object, a top level \"url\" is opened on selection")
	storeAddCmd.Flags().StringArray("tag", nil, "ID of a tag to attach")

	lo.Must0(storeAddCmd.MarkFlagRequired("facet"))
	lo.Must0(storeAddCmd.MarkFlagRequired("title"))
}

var storeAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add an object to a facet",
	Example: `  kolekk store add -f bookmarks -t "go tour" -d '{"url":"https://go.dev/tour"}'`,
	Run: func(cmd *cobra.Command, args []string) {
		obj := store.Object{
			Facet: store.Facet(lo.Must(cmd.Flags().GetString("facet"))),
			Title: lo.Must(cmd.Flags().GetString("title")),
			Tags:  lo.Must(cmd.Flags().GetStringArray("tag")),
		}
		if obj.Facet == store.FacetTag {
			handleErr(fmt.Errorf("facet %q is reserved, use the tags command", store.FacetTag))
		}

		if data := lo.Must(cmd.Flags().GetString("data")); data != "" {
			if !json.Valid([]byte(data)) {
				handleErr(fmt.Errorf("data is not valid JSON"))
			}
			obj.Data = json.RawMessage(data)
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			stored, err := d.Store.Put(ctx, obj)
			if err != nil {
				return err
			}
			fmt.Printf("%s added %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(stored[0].ID))
			return nil
		})
	},
}

func init() {
	storeCmd.AddCommand(storeListCmd)

	storeListCmd.Flags().StringP("facet", "f", "", "Facet to list")
	storeListCmd.Flags().StringP("query", "q", "", "Only list objects matching the query")
	storeListCmd.Flags().IntP("limit", "l", 50, "Maximum number of objects to list")
	storeListCmd.Flags().BoolP("json", "j", false, "Print the objects as JSON")
	lo.Must0(storeListCmd.MarkFlagRequired("facet"))

	storeListCmd.SetOut(os.Stdout)
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the objects of a facet",
	Run: func(cmd *cobra.Command, args []string) {
		facet := store.Facet(lo.Must(cmd.Flags().GetString("facet")))
		q := lo.Must(cmd.Flags().GetString("query"))
		limit := lo.Must(cmd.Flags().GetInt("limit"))

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			objs, err := d.Store.Search(ctx, facet, q, limit, 0)
			if err != nil {
				return err
			}

			if lo.Must(cmd.Flags().GetBool("json")) {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(objs)
			}

			for _, o := range objs {
				cmd.Printf("%s %s\n", style.Fg(color.Gray)(o.ID), o.Title)
			}
			return nil
		})
	},
}

func init() {
	storeCmd.AddCommand(storeDeleteFacetCmd)

	storeDeleteFacetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var storeDeleteFacetCmd = &cobra.Command{
	Use:   "delete-facet <facet>",
	Short: "Delete every object of a facet",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facet := store.Facet(args[0])

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			var yes bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Delete every object of %q?", facet),
			}, &yes))
			if !yes {
				return
			}
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			n, err := d.Store.DeleteFacet(ctx, facet)
			if err != nil {
				return err
			}
			fmt.Printf("%s deleted %s\n", icon.Get(icon.Success), util.Quantify(n, "object", "objects"))
			return nil
		})
	},
}

func init() {
	storeCmd.AddCommand(storeCountCmd)
}

var storeCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print how many documents the store holds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(_ context.Context, d *searcher.Deps) error {
			n, err := d.Store.Count()
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		})
	},
}
