// ============================================================================
// JoyJoin - Registration Client
// ============================================================================
//
// Package:     version
// Description: Central version management for the client binaries
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Client is the registration client version
	Client = "1.0.0"

	// Protocol is the version of the JoyJoin registration form protocol
	// ("true"/"false" text verdicts, form-encoded requests)
	Protocol = "1.0.0"
)

// Build metadata, set via -ldflags
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// UserAgent returns the User-Agent sent with every HTTP request
func UserAgent() string {
	return fmt.Sprintf("joyjoin-client/%s (%s/%s)", Client, runtime.GOOS, runtime.GOARCH)
}
