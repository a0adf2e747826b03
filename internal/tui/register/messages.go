// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     register
// Description: Message types and commands for async operations
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package register

import (
	"context"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/themandi/JoyJoin/internal/registration"
	"github.com/themandi/JoyJoin/internal/registration/remote"
)

// Message types for tea.Cmd async operations

// checkResultMsg is sent when a remote check finishes
type checkResultMsg struct {
	result registration.Result
}

// submitResultMsg is sent when the real submission finishes
type submitResultMsg struct {
	err error
}

// checkCmd runs one remote check
func checkCmd(ctx context.Context, checker remote.Checker, req registration.Request) tea.Cmd {
	return func() tea.Msg {
		verdict, err := checker.Check(ctx, req.Endpoint, req.Payload)
		return checkResultMsg{result: registration.Result{Request: req, Verdict: verdict, Err: err}}
	}
}

// submitCmd posts the finished form; a nil submitter is a dry run
func submitCmd(ctx context.Context, submitter remote.Submitter, values url.Values) tea.Cmd {
	return func() tea.Msg {
		if submitter == nil {
			return submitResultMsg{}
		}
		return submitResultMsg{err: submitter.Submit(ctx, values)}
	}
}
