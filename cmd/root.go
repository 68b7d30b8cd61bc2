// Package cmd implements the command-line interface for kolekk.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/searcher"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/tui"
	"github.com/thrombe/kolekk/util"
	"github.com/thrombe/kolekk/version"
	"github.com/thrombe/kolekk/where"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("adult", false, "Include adult titles in movie and tv results")
	lo.Must0(viper.BindPFlag(key.TMDBIncludeAdult, rootCmd.PersistentFlags().Lookup("adult")))

	rootCmd.PersistentFlags().Bool("memory", false, "Keep the store in memory for this run")
	lo.Must0(viper.BindPFlag(key.StoreInMemory, rootCmd.PersistentFlags().Lookup("memory")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd opens the interactive search, optionally straight on a kind.
var rootCmd = &cobra.Command{
	Use:   constant.Kolekk + " [kind] [binding]",
	Short: "Search local collections and remote catalogs as you type",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Search local collections and remote catalogs as you type"),
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completeSpec,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options := tui.Options{}
		if len(args) > 0 {
			options.Spec = mo.Some(parseSpec(args))
		}

		withDeps(func(ctx context.Context, d *searcher.Deps) error {
			return tui.Run(ctx, d, &options)
		})
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	if errors.Is(err, searcher.ErrMissingBackend) {
		printMissingBackendError(err)
		os.Exit(1)
	}
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}

// withDeps opens every backend, runs fn until it returns or the process is interrupted, then closes them.
func withDeps(fn func(ctx context.Context, d *searcher.Deps) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := searcher.FromConfig()
	handleErr(err)

	err = fn(ctx, d)
	if closeErr := d.Close(); closeErr != nil {
		log.Warn(closeErr)
	}
	handleErr(err)
}

// parseSpec reads a kind and its binding from positional arguments.
func parseSpec(args []string) searcher.Spec {
	kind, err := searcher.ParseKind(args[0])
	handleErr(err)

	spec := searcher.Spec{
		Kind:         kind,
		IncludeAdult: viper.GetBool(key.TMDBIncludeAdult),
	}
	if len(args) > 1 {
		spec.Binding = args[1]
	}

	if spec.Kind == searcher.KindScripted && spec.Binding == "" {
		if defaults := viper.GetStringSlice(key.DefaultSources); len(defaults) > 0 {
			spec.Binding = defaults[0]
		}
	}

	return spec
}

func completeSpec(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return lo.Map(searcher.Kinds, func(k searcher.Kind, _ int) string { return string(k) }), cobra.ShellCompDirectiveNoFileComp
	case 1:
		if searcher.Kind(args[0]) == searcher.KindScripted {
			return providerNames(), cobra.ShellCompDirectiveNoFileComp
		}
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
