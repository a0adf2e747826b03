// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     remote
// Description: Server-confirmed field checks over the form-post protocol
// Created:     2026-10-15
// License:     MIT
// ============================================================================

// Package remote reaches the JoyJoin register endpoints. Each endpoint takes
// one form-encoded value and answers with the literal text "true" or "false".
// Every failure, including an unexpected body, degrades to VerdictUnconfirmed
// and is never treated as acceptance.
package remote

import (
	"errors"
	"fmt"
	"strings"
)

// Endpoint names one server-side check
type Endpoint string

// Known endpoints
const (
	EndpointLoginAvailable    Endpoint = "login-available"
	EndpointPasswordNotCommon Endpoint = "password-not-common"
	EndpointAgeEligible       Endpoint = "age-eligible"
)

// Verdict is the typed outcome of a remote check
type Verdict int

const (
	// VerdictUnconfirmed means the check did not produce an answer
	VerdictUnconfirmed Verdict = iota
	VerdictAccepted
	VerdictRejected
)

// String returns the string representation of the verdict
func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictRejected:
		return "rejected"
	default:
		return "unconfirmed"
	}
}

var (
	// ErrMalformedVerdict is returned for a body that is neither "true" nor "false"
	ErrMalformedVerdict = errors.New("malformed verdict")

	// ErrUnexpectedStatus is returned for non-2xx responses
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrUnknownEndpoint is returned when no route is configured for an endpoint
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// DecodeVerdict maps a response body to a verdict.
// Surrounding whitespace is ignored; any other payload is an error.
func DecodeVerdict(body string) (Verdict, error) {
	switch strings.TrimSpace(body) {
	case "true":
		return VerdictAccepted, nil
	case "false":
		return VerdictRejected, nil
	}

	shown := body
	if len(shown) > 32 {
		shown = shown[:32] + "..."
	}
	return VerdictUnconfirmed, fmt.Errorf("%w: %q", ErrMalformedVerdict, shown)
}
