package cmd

import (
	"github.com/spf13/cobra"

	"github.com/themandi/JoyJoin/internal/tui/register"
)

var registerDryRun bool

var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup", "tui"},
	Short:   "Open the interactive registration form",
	Long: `Opens the JoyJoin registration form in the terminal.

Every field is checked while you type. Login, password and birth date are
confirmed by the server; the form is only sent once all seven fields are valid.

Keys:
  Tab / Shift+Tab   next / previous field
  Space             accept the rules
  Enter             next field, or register on the button
  Ctrl+S            register
  Ctrl+C / Esc      quit`,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().BoolVar(&registerDryRun, "dry-run", false,
		"run all checks but do not send the finished form")
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := register.Config{
		Checker:     a.checker,
		StalePolicy: a.policy,
		Logger:      a.log,
		Metrics:     a.metrics,
	}
	if !registerDryRun {
		cfg.Submitter = a.submitter
	}

	return register.Run(cfg)
}
