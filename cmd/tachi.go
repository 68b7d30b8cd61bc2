package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/tachidesk"
	"github.com/thrombe/kolekk/util"
)

func init() {
	rootCmd.AddCommand(tachiCmd)
}

// tachiCmd talks to the Tachidesk server behind the manga kinds.
var tachiCmd = &cobra.Command{
	Use:   "tachi",
	Short: "Manage the Tachidesk server behind extensions, sources, mangas and chapters",
}

func init() {
	tachiCmd.AddCommand(tachiReloadCmd)
}

var tachiReloadCmd = &cobra.Command{
	Use:   "reload <extensions|sources|chapters> [manga-id]",
	Short: "Refresh the local copy of a server listing",
	Args:  cobra.RangeArgs(1, 2),
	ValidArgs: lo.Map(
		lo.Filter(searcher.Kinds, func(k searcher.Kind, _ int) bool { return searcher.CanReload(k) }),
		func(k searcher.Kind, _ int) string { return string(k) },
	),
	Run: func(cmd *cobra.Command, args []string) {
		spec := parseSpec(args)
		if !searcher.CanReload(spec.Kind) {
			handleErr(fmt.Errorf("%s cannot be reloaded", spec.Kind))
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			e := util.PrintErasable(fmt.Sprintf("%s Reloading %s...", icon.Get(icon.Progress), spec.Kind))
			n, err := searcher.ReloadKind(ctx, d, spec)
			e()
			if err != nil {
				return err
			}
			fmt.Printf("%s stored %s\n", icon.Get(icon.Success), util.Quantify(n, string(spec.Kind)[:len(spec.Kind)-1], string(spec.Kind)))
			return nil
		})
	},
}

func init() {
	for _, action := range []tachidesk.ExtensionAction{tachidesk.Install, tachidesk.Update, tachidesk.Uninstall} {
		tachiCmd.AddCommand(extensionActionCmd(action))
	}
}

// extensionActionCmd runs action on extensions, then refreshes the extension and source listings.
func extensionActionCmd(action tachidesk.ExtensionAction) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <package>...",
		Short: util.Capitalize(string(action)) + " Tachidesk extensions",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			withDeps(func(ctx context.Context, d *searcher.Deps) error {
				client, err := requireTachidesk(d)
				if err != nil {
					return err
				}

				for _, pkg := range args {
					e := util.PrintErasable(fmt.Sprintf("%s %s %s...", icon.Get(icon.Progress), util.Capitalize(string(action)), pkg))
					err := client.ExtensionAction(ctx, pkg, action)
					e()
					if err != nil {
						return err
					}
					fmt.Printf("%s %s %s\n", icon.Get(icon.Success), action, style.Fg(color.Yellow)(pkg))
				}

				for _, kind := range []searcher.Kind{searcher.KindExtensions, searcher.KindSources} {
					if _, err := searcher.ReloadKind(ctx, d, searcher.Spec{Kind: kind}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

// requireTachidesk returns the configured client or a missing backend error.
func requireTachidesk(d *searcher.Deps) (*tachidesk.Client, error) {
	if d.Tachidesk == nil {
		return nil, fmt.Errorf("%w: tachidesk", searcher.ErrMissingBackend)
	}
	return d.Tachidesk, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	handleErr(err)
	return n
}

func printField(name string, value any) {
	fmt.Printf("  %s %v\n", style.Faint(fmt.Sprintf("%-10s", name)), value)
}

func init() {
	tachiCmd.AddCommand(tachiSourceCmd)
}

var tachiSourceCmd = &cobra.Command{
	Use:   "source <source-id>",
	Short: "Describe a source and the search filters it accepts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			client, err := requireTachidesk(d)
			if err != nil {
				return err
			}
			src, err := client.Source(ctx, args[0])
			if err != nil {
				return err
			}
			filters, err := client.SourceFilters(ctx, src.ID)
			if err != nil {
				return err
			}

			fmt.Println(style.Bold(src.DisplayName))
			printField("Language", src.Lang)
			printField("Latest", lo.Ternary(src.SupportsLatest, "supported", "not supported"))
			printField("NSFW", src.IsNsfw)
			for _, f := range filters {
				printField("Filter", fmt.Sprintf("%s %s", f.Filter.Name, style.Faint("("+f.Type+")")))
			}
			return nil
		})
	},
}

func init() {
	tachiCmd.AddCommand(tachiMangaCmd)
}

var tachiMangaCmd = &cobra.Command{
	Use:   "manga <manga-id>",
	Short: "Describe a manga",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := atoi(args[0])

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			client, err := requireTachidesk(d)
			if err != nil {
				return err
			}
			m, err := client.Manga(ctx, id)
			if err != nil {
				return err
			}

			fmt.Println(style.Bold(m.Title))
			printField("Author", m.Author)
			printField("Status", m.Status)
			printField("Genres", strings.Join(m.Genre, ", "))
			printField("URL", m.RealURL)
			printField("Cover", client.ThumbnailURL(m.ID))
			if m.Description != "" {
				fmt.Printf("\n%s\n", m.Description)
			}
			return nil
		})
	},
}

func init() {
	tachiCmd.AddCommand(tachiChapterCmd)
}

var tachiChapterCmd = &cobra.Command{
	Use:   "chapter <manga-id> <chapter-index>",
	Short: "Load a chapter and print the URLs of its pages",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		manga, index := atoi(args[0]), atoi(args[1])

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			client, err := requireTachidesk(d)
			if err != nil {
				return err
			}
			ch, err := client.Chapter(ctx, manga, index)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s\n", style.Bold(ch.Name), style.Faint(util.Quantify(ch.PageCount, "page", "pages")))
			for page := 0; page < ch.PageCount; page++ {
				fmt.Println(client.PageURL(manga, index, page))
			}
			return nil
		})
	},
}

func init() {
	tachiCmd.AddCommand(tachiPageCmd)
}

var tachiPageCmd = &cobra.Command{
	Use:   "page <manga-id> <chapter-index> <page>",
	Short: "Print the image URL of one chapter page",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		numbers := lo.Map(args, func(a string, _ int) int { return atoi(a) })

		withDeps(func(_ context.Context, d *searcher.Deps) error {
			client, err := requireTachidesk(d)
			if err != nil {
				return err
			}
			fmt.Println(client.PageURL(numbers[0], numbers[1], numbers[2]))
			return nil
		})
	},
}
