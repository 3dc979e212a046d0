// Package errors provides standardized error types for the certdeploy CLI tool.
//
// The errors package defines domain-specific error types that map deploy-hook
// outcomes onto the exit-code contract shared with the invoking certbot
// process.
//
// # Error Types
//
// DeployError is the primary error type, containing:
//   - Code: Categorizes the error (INIT, CONFIG_MISSING, UPSTREAM, etc.)
//   - Message: Human-readable error description
//   - Target: The deploy target involved (if applicable)
//   - Missing: The configuration key paths that were absent (CONFIG_MISSING only)
//   - Err: The underlying wrapped error (if any)
//
// # Exit Codes
//
// Every hook run reports its outcome through the process exit code:
//
//	0  success, or target not configured for this lineage (soft skip)
//	1  initialization error (missing environment or config file)
//	2  one or more required configuration keys missing
//	3  upstream API or authentication failure
//
// Use ExitCode to translate any error (or nil) into the code to exit with.
//
// # Usage
//
// Creating domain-specific errors:
//
//	// Environment or config file problem
//	return errors.Init("RENEWED_LINEAGE is not set", nil)
//
//	// Required keys absent; always report the complete list
//	return errors.MissingKeys("clearPass", missing)
//
//	// Downstream service rejected us
//	return errors.Upstream("technitium", "login returned no token", nil)
//
//	// Expected resource absent, not an error for this lineage
//	return errors.Skip("blockpage", "install directory not found")
//
// # Error Checking
//
// Use errors.Is for sentinel comparison and errors.As for type assertion:
//
//	if errors.Is(err, errors.ErrNotConfigured) {
//	    // target has no section in deploy.json
//	}
//
//	var depErr *errors.DeployError
//	if errors.As(err, &depErr) {
//	    fmt.Printf("code: %s, target: %s\n", depErr.Code, depErr.Target)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeInit          ErrorCode = "INIT"           // Environment or config file unusable
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING" // Required configuration keys absent
	ErrCodeUpstream      ErrorCode = "UPSTREAM"       // Downstream API or auth failure
	ErrCodeSkip          ErrorCode = "SKIP"           // Target not applicable, not a failure
	ErrCodeTransfer      ErrorCode = "TRANSFER"       // Local conversion or file transfer failed
	ErrCodeInternal      ErrorCode = "INTERNAL"       // Internal/unexpected error
)

// DeployError represents a structured error with context about the hook run.
type DeployError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Target  string    // Deploy target name (if applicable)
	Missing []string  // Missing key paths (CONFIG_MISSING only)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *DeployError) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Missing, ", "))
	}
	if e.Target != "" && e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Target, msg, e.Err)
	}
	if e.Target != "" {
		return fmt.Sprintf("%s: %s", e.Target, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *DeployError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *DeployError) Is(target error) bool {
	t, ok := target.(*DeployError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrNoLineage indicates RENEWED_LINEAGE is missing or empty.
	ErrNoLineage = &DeployError{Code: ErrCodeInit, Message: "RENEWED_LINEAGE is not set"}

	// ErrNoDomains indicates RENEWED_DOMAINS is missing or empty.
	ErrNoDomains = &DeployError{Code: ErrCodeInit, Message: "RENEWED_DOMAINS is not set"}

	// ErrConfigNotFound indicates the lineage has no deploy.json.
	ErrConfigNotFound = &DeployError{Code: ErrCodeInit, Message: "deploy.json not found"}

	// ErrNotConfigured indicates the target has no section in deploy.json.
	ErrNotConfigured = &DeployError{Code: ErrCodeSkip, Message: "target not configured"}

	// ErrAuthFailed indicates the downstream service rejected our credentials.
	ErrAuthFailed = &DeployError{Code: ErrCodeUpstream, Message: "authentication failed"}
)

// Init creates an initialization error.
func Init(msg string, err error) error {
	return &DeployError{
		Code:    ErrCodeInit,
		Message: msg,
		Err:     err,
	}
}

// MissingKeys creates an error listing every absent required key path.
// The message always enumerates the complete list so the operator sees
// the full remediation in one run.
func MissingKeys(target string, keys []string) error {
	return &DeployError{
		Code:    ErrCodeConfigMissing,
		Message: "missing required configuration",
		Target:  target,
		Missing: keys,
	}
}

// Upstream creates an error for a failed downstream API or auth call.
func Upstream(target, msg string, err error) error {
	return &DeployError{
		Code:    ErrCodeUpstream,
		Message: msg,
		Target:  target,
		Err:     err,
	}
}

// Skip creates a soft-skip marker: the target does not apply to this
// lineage or an expected optional resource is absent. Skips map to exit 0.
func Skip(target, msg string) error {
	return &DeployError{
		Code:    ErrCodeSkip,
		Message: msg,
		Target:  target,
	}
}

// Transfer creates an error for a failed local conversion or file transfer.
func Transfer(target, msg string, err error) error {
	return &DeployError{
		Code:    ErrCodeTransfer,
		Message: msg,
		Target:  target,
		Err:     err,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &DeployError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// IsSkip reports whether err is a soft skip.
func IsSkip(err error) bool {
	var depErr *DeployError
	if errors.As(err, &depErr) {
		return depErr.Code == ErrCodeSkip
	}
	return false
}

// ExitCode maps an error to the process exit code contract.
// A nil error and a soft skip both exit 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var depErr *DeployError
	if !errors.As(err, &depErr) {
		return 1
	}
	switch depErr.Code {
	case ErrCodeSkip:
		return 0
	case ErrCodeInit:
		return 1
	case ErrCodeConfigMissing:
		return 2
	case ErrCodeUpstream:
		return 3
	default:
		return 1
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
