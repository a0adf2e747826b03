// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     cmd
// Description: Headless validation and submission of a registration
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/session"
)

// errNotSubmittable makes the command exit non-zero
var errNotSubmittable = errors.New("registration is not complete")

var (
	checkLogin       string
	checkName        string
	checkEmail       string
	checkPassword    string
	checkPassword2   string
	checkBirthDate   string
	checkAcceptRules bool
	checkSubmit      bool
	checkWait        time.Duration
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a registration without the interactive form",
	Long: `Fills the registration form from flags, waits for every server check and
prints a report per field. With --submit a complete form is sent to the site;
otherwise nothing is registered.

Exits with a non-zero status when the form could not be submitted.`,
	Example: `  joyjoin check --login kasia_92 --name "Katarzyna Lecka" \
    --email kasia@joyjoin.pl --password abc12345 --birth-date 1990-05-17 \
    --accept-rules`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.StringVar(&checkLogin, "login", "", "login")
	f.StringVar(&checkName, "name", "", "display name")
	f.StringVar(&checkEmail, "email", "", "e-mail address")
	f.StringVar(&checkPassword, "password", "", "password")
	f.StringVar(&checkPassword2, "password2", "", "repeated password (default: --password)")
	f.StringVar(&checkBirthDate, "birth-date", "", "birth date, e.g. 1990-05-17 or 17.05.1990")
	f.BoolVar(&checkAcceptRules, "accept-rules", false, "accept the site rules")
	f.BoolVar(&checkSubmit, "submit", false, "send the form when it is complete")
	f.DurationVar(&checkWait, "wait", 30*time.Second, "how long to wait for server checks")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if checkPassword2 == "" {
		checkPassword2 = checkPassword
	}

	cfg := session.Config{
		Checker:     a.checker,
		StalePolicy: a.policy,
		Logger:      a.log,
		Metrics:     a.metrics,
	}
	if checkSubmit {
		cfg.Submitter = a.submitter
	}
	s := session.New(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), checkWait)
	defer cancel()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = s.Run(runCtx) }()

	state, submitted, err := fillAndSubmit(ctx, s)
	if err != nil {
		printError("registration failed", err)
		return err
	}

	printReport(cmd.OutOrStdout(), state, submitted)
	a.log.Info("check finished",
		zap.String("session", s.ID()),
		zap.Bool("submitted", submitted),
		zap.Bool("sent", submitted && checkSubmit))

	if !submitted {
		return errNotSubmittable
	}
	return nil
}

// fillAndSubmit types every field like a user would, then submits. A blocked
// first attempt re-validates and reveals the failing fields; the second one
// sees the result of those checks.
func fillAndSubmit(ctx context.Context, s *session.Session) (registration.FormState, bool, error) {
	inputs := []struct {
		field registration.Field
		value string
	}{
		{registration.FieldLogin, checkLogin},
		{registration.FieldName, checkName},
		{registration.FieldEmail, checkEmail},
		{registration.FieldPassword, checkPassword},
		{registration.FieldBirthDate, checkBirthDate},
	}
	for _, in := range inputs {
		if _, err := s.Input(ctx, in.field, in.value); err != nil {
			return registration.FormState{}, false, err
		}
		if _, err := s.Blur(ctx, in.field); err != nil {
			return registration.FormState{}, false, err
		}
	}

	// the confirmation only opens once the password is confirmed
	if err := s.WaitIdle(ctx); err != nil {
		return registration.FormState{}, false, fmt.Errorf("waiting for server checks: %w", err)
	}
	if _, err := s.Input(ctx, registration.FieldPasswordConfirm, checkPassword2); err != nil {
		return registration.FormState{}, false, err
	}
	if _, err := s.Accept(ctx, checkAcceptRules); err != nil {
		return registration.FormState{}, false, err
	}
	if _, err := s.Blur(ctx, registration.FieldRules); err != nil {
		return registration.FormState{}, false, err
	}

	var submitted bool
	for attempt := 0; attempt < 2 && !submitted; attempt++ {
		var err error
		submitted, err = s.Submit(ctx)
		if err != nil {
			return registration.FormState{}, submitted, err
		}
		if err := s.WaitIdle(ctx); err != nil {
			return registration.FormState{}, false, fmt.Errorf("waiting for server checks: %w", err)
		}
	}

	state, err := s.Snapshot(ctx)
	return state, submitted, err
}

func printReport(w io.Writer, state registration.FormState, submitted bool) {
	fmt.Fprintln(w, "JoyJoin registration")
	fmt.Fprintln(w, "====================")
	fmt.Fprintln(w)

	for _, f := range state.Fields {
		icon := "[-]"
		if f.Validity == registration.ValidityValid {
			icon = "[+]"
		}
		status := f.Validity.String()
		if f.Disabled {
			status += ", disabled"
		}
		fmt.Fprintf(w, "  %s %-20s %s\n", icon, f.Field.Label(), status)
		for _, msg := range f.Messages() {
			fmt.Fprintf(w, "        %s\n", msg)
		}
	}

	fmt.Fprintln(w)
	switch {
	case submitted && checkSubmit:
		fmt.Fprintln(w, "Registration sent.")
	case submitted:
		fmt.Fprintln(w, "Form is complete (dry run, use --submit to send it).")
	default:
		fmt.Fprintln(w, "Form is incomplete.")
	}
}
