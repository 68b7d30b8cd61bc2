package cmd

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/style"
)

func init() {
	rootCmd.AddCommand(tagsCmd)
}

// tagsCmd edits tags and their attachment to objects.
var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Create tags and attach them to objects",
}

func init() {
	tagsCmd.AddCommand(tagsAddCmd)

	tagsAddCmd.Flags().String("alias-of", "", "ID of the tag this one stands for")
}

var tagsAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Create a tag",
	Args:    cobra.ExactArgs(1),
	Example: "  kolekk tags add golang\n  kolekk tags add go --alias-of <id>",
	Run: func(cmd *cobra.Command, args []string) {
		tag := store.Tag{
			Name:    args[0],
			AliasOf: lo.Must(cmd.Flags().GetString("alias-of")),
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			saved, err := d.Store.SaveTag(ctx, tag)
			if err != nil {
				return err
			}
			fmt.Printf("%s tag %s is %s\n", icon.Get(icon.Success), saved.Name, style.Fg(color.Yellow)(saved.ID))
			return nil
		})
	},
}

func init() {
	tagsCmd.AddCommand(tagsAttachCmd, tagsDetachCmd)
}

var tagsAttachCmd = &cobra.Command{
	Use:   "attach <object-id> <tag-id>",
	Short: "Attach a tag to an object",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			if err := d.Store.AddTag(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s attached\n", icon.Get(icon.Success))
			return nil
		})
	},
}

var tagsDetachCmd = &cobra.Command{
	Use:   "detach <object-id> <tag-id>",
	Short: "Detach a tag from an object",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			if err := d.Store.RemoveTag(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s detached\n", icon.Get(icon.Success))
			return nil
		})
	},
}
