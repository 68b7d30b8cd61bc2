package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/thrombe/kolekk/auth"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/style"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages catalog credentials in the system keyring.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API credentials of remote catalogs",
	Long: `Store API credentials in the system keyring.
A credential in the keyring takes precedence over the same one in the config file.`,
}

func serviceNames() []string {
	return lo.Map(auth.Services, func(s auth.Service, _ int) string { return string(s) })
}

func completeService(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return serviceNames(), cobra.ShellCompDirectiveNoFileComp
}

func mustService(name string) auth.Service {
	s, err := auth.ParseService(name)
	handleErr(err)
	return s
}

// mask hides all but the last four characters of secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func init() {
	authCmd.AddCommand(authSetCmd)

	authSetCmd.Flags().StringP("secret", "s", "", "The credential, prompted for when omitted")
}

var authSetCmd = &cobra.Command{
	Use:               "set <service>",
	Short:             "Store the credential of a service",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeService,
	Run: func(cmd *cobra.Command, args []string) {
		service := mustService(args[0])

		secret := lo.Must(cmd.Flags().GetString("secret"))
		if secret == "" {
			handleErr(survey.AskOne(&survey.Password{
				Message: fmt.Sprintf("Credential for %s:", service),
			}, &secret, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.Set(service, strings.TrimSpace(secret)))
		fmt.Printf("%s stored credential for %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(string(service)))
	},
}

func init() {
	authCmd.AddCommand(authGetCmd)

	authGetCmd.Flags().Bool("reveal", false, "Print the credential unmasked")
	authGetCmd.SetOut(os.Stdout)
}

var authGetCmd = &cobra.Command{
	Use:               "get <service>",
	Short:             "Print the credential of a service and where it comes from",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeService,
	Run: func(cmd *cobra.Command, args []string) {
		service := mustService(args[0])

		secret := auth.Get(service)
		if secret == "" {
			handleErr(fmt.Errorf("no credential for %s", service))
		}

		if !lo.Must(cmd.Flags().GetBool("reveal")) {
			secret = mask(secret)
		}
		cmd.Printf("%s %s\n", secret, style.Fg(color.Gray)("("+auth.Source(service)+")"))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:               "delete <service>",
	Short:             "Remove the credential of a service from the keyring",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeService,
	Run: func(cmd *cobra.Command, args []string) {
		service := mustService(args[0])
		handleErr(auth.Delete(service))
		fmt.Printf("%s removed credential for %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(string(service)))
	},
}

func init() {
	authCmd.AddCommand(authListCmd)
	authListCmd.SetOut(os.Stdout)
}

var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which services have a credential",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range auth.Services {
			source := auth.Source(s)
			if source == "" {
				source = style.Fg(color.Red)("missing")
			}
			cmd.Printf("%-8s %s\n", s, source)
		}
	},
}
