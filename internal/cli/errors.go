// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types, display and exit codes for devtinder commands.
//
// Handlers always return errors and never print them; main decides how
// to show them and which exit code to use.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitAuthError     = 4
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a command failure with context.
type CommandError struct {
	Command string // e.g. "requests"
	Action  string // e.g. "accept"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError is bad user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError is a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewCommandError creates a CommandError.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(name, usage string) error {
	return &ValidationError{Field: name, Reason: "required argument missing", Example: usage}
}

// errNotLoggedIn is returned by commands that need a session when none
// was restored.
var errNotLoggedIn = &CommandError{
	Command: "devtinder",
	Action:  "session",
	Reason:  "not logged in; run `devtinder login`",
	Err:     api.ErrUnauthorized,
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w, as JSON in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), errorText(err))
}

// errorText prefers the backend's own wording for REST failures.
func errorText(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && !errors.Is(err, api.ErrUnauthorized) {
		return api.UserMessage(err)
	}
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		return "invalid input: " + fe.Error()
	}
	return err.Error()
}

// DisplayErrorJSON writes err as a JSON object.
func DisplayErrorJSON(w io.Writer, err error) {
	out := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	var (
		cmdErr   *CommandError
		valErr   *ValidationError
		nfErr    *NotFoundError
		fieldErr validate.FieldErrors
		clientEr *api.ClientError
	)
	switch {
	case errors.As(err, &valErr):
		out["error_type"] = "validation_error"
		out["field"] = valErr.Field
		out["reason"] = valErr.Reason
	case errors.As(err, &fieldErr):
		out["error_type"] = "validation_error"
		out["fields"] = map[string]string(fieldErr)
	case errors.As(err, &nfErr):
		out["error_type"] = "not_found_error"
		out["resource"] = nfErr.Resource
		out["id"] = nfErr.ID
	case errors.As(err, &clientEr):
		out["error_type"] = "backend_error"
		out["kind"] = clientEr.Type.String()
		if clientEr.Status != 0 {
			out["status"] = clientEr.Status
		}
	case errors.As(err, &cmdErr):
		out["error_type"] = "command_error"
		out["command"] = cmdErr.Command
		out["action"] = cmdErr.Action
	default:
		out["error_type"] = "generic_error"
	}

	data, mErr := json.MarshalIndent(out, "", "  ")
	if mErr != nil {
		fmt.Fprintf(w, "{\"success\":false,\"error\":%q}\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode maps an error onto an exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		valErr   *ValidationError
		nfErr    *NotFoundError
		fieldErr validate.FieldErrors
		cfgErr   config.ValidationError
		cfgErrs  config.ValidateErrors
	)
	switch {
	case errors.As(err, &valErr), errors.As(err, &fieldErr):
		return ExitUsageError
	case errors.As(err, &cfgErr), errors.As(err, &cfgErrs):
		return ExitConfigError
	case errors.As(err, &nfErr), errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, api.ErrUnauthorized):
		return ExitAuthError
	case errors.Is(err, api.ErrUnreachable):
		return ExitNetworkError
	case errors.Is(err, api.ErrTimeout):
		return ExitTimeoutError
	}
	return ExitGeneralError
}
