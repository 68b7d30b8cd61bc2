package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/util"
	"github.com/thrombe/kolekk/where"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for managing scraping providers.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the Lua catalog scripts behind the scripted kind",
}

// providerNames lists installed scripts for shell completion.
func providerNames() []string {
	return provider.Names()
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd prints every installed script.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display every installed catalog script",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		providers, err := provider.CustomProviders()
		handleErr(err)

		if !raw {
			cmd.Println(style.New().Foreground(color.HiBlue).Bold(true).Render("Scripts:"))
		}

		for _, p := range providers {
			if raw || !p.UsesHeadless {
				cmd.Println(p.Name)
				continue
			}
			cmd.Printf("%s %s\n", p.Name, style.Fg(color.Gray)("(headless)"))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of a script to uninstall")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		sources, err := filesystem.API().ReadDir(where.Sources())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(sources, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if !strings.HasSuffix(name, provider.CustomProviderExtension) {
				return "", false
			}

			return util.FileStem(filepath.Base(name)), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

// sourcesRemoveCmd deletes installed scripts.
var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall catalog scripts",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+provider.CustomProviderExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s successfully removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesUpdateCmd)

	sourcesUpdateCmd.Flags().String("from", "", "Repository base URL, overriding "+key.SourcesRepository)
	sourcesUpdateCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return providerNames(), cobra.ShellCompDirectiveNoFileComp
	}
}

// sourcesUpdateCmd downloads newer copies of scripts from the repository.
var sourcesUpdateCmd = &cobra.Command{
	Use:   "update [name...]",
	Short: "Fetch newer versions of catalog scripts from the repository",
	Long: `Download scripts from the configured repository, a directory of raw .lua files.
Without names every installed script is refreshed. Naming a script that is not installed yet installs it.`,
	Example: "  kolekk sources update\n  kolekk sources update mysource --from https://example.com/scripts",
	Run: func(cmd *cobra.Command, args []string) {
		from := lo.Must(cmd.Flags().GetString("from"))
		if from == "" {
			from = viper.GetString(key.SourcesRepository)
		}

		names := args
		if len(names) == 0 {
			names = providerNames()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		e := util.PrintErasable(fmt.Sprintf("%s Updating %d script(s)...", icon.Get(icon.Progress), len(names)))
		updated, err := provider.Update(ctx, from, names...)
		e()
		handleErr(err)

		if len(updated) == 0 {
			fmt.Printf("%s Everything is up to date\n", icon.Get(icon.Success))
			return
		}
		for _, name := range updated {
			fmt.Printf("%s updated %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "The display name of the new catalog script")
	sourcesGenCmd.Flags().StringP("url", "u", "", "The base URL of the catalog the script searches")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

// sourcesGenCmd scaffolds a catalog script.
var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Scaffold a new catalog script from a template",
	Long:  `Generate a Lua catalog script with the search function and page size stubbed out.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		var author string
		usr, err := user.Current()
		if err == nil {
			author = usr.Username
		} else {
			author = "Anonymous"
		}

		s := struct {
			Name         string
			URL          string
			SearchFn     string
			PageLimitVar string
			Author       string
		}{
			Name:         lo.Must(cmd.Flags().GetString("name")),
			URL:          lo.Must(cmd.Flags().GetString("url")),
			SearchFn:     constant.SearchFn,
			PageLimitVar: constant.PageLimitVar,
			Author:       author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl, err := template.New("source").Funcs(funcMap).Parse(constant.SourceTemplate)
		handleErr(err)

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+".lua")
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)

		err = tmpl.Execute(f, s)
		handleErr(err)

		cmd.Println(target)
	},
}
