package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	verbose     bool
	baseURL     string
	csrfToken   string
	stalePolicy string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "joyjoin",
	Short: "JoyJoin - registration client",
	Long: `JoyJoin registration client.

Fills in the JoyJoin registration form with the same checks the site runs:
local field rules, server-confirmed login availability, password strength
and age eligibility, and a submit gate that only lets a complete form through.

Commands:
  register - interactive registration form
  check    - validate a registration from flags, optionally submit it`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $JOYJOIN_CONFIG or ./configs/joyjoin.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "JoyJoin site URL, overrides server.base_url")
	rootCmd.PersistentFlags().StringVar(&csrfToken, "csrf-token", "", "CSRF token sent with every form, overrides server.csrf_token")
	rootCmd.PersistentFlags().StringVar(&stalePolicy, "stale-responses", "", "late verdicts: discard or apply, overrides engine.stale_responses")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, overrides metrics.addr")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
