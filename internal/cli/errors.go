package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/daily"
	"github.com/aidanlsb/tern/internal/paths"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Vault errors
	ErrVaultNotFound = "VAULT_NOT_FOUND"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Notebook errors
	ErrNotebookNotFound = "NOTEBOOK_NOT_FOUND"
	ErrDateInvalid      = "DATE_INVALID"

	// File errors
	ErrFileNotFound     = "FILE_NOT_FOUND"
	ErrFileWriteError   = "FILE_WRITE_ERROR"
	ErrFileOutsideVault = "FILE_OUTSIDE_VAULT"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Error is a command failure carrying its stable code.
type Error struct {
	Code       string
	Err        error
	Suggestion string
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func newError(code string, err error, suggestion string) *Error {
	return &Error{Code: code, Err: err, Suggestion: suggestion}
}

// classify picks the error code for err. Coded errors keep their code;
// known sentinels from the domain packages are mapped; anything else is
// internal.
func classify(err error) (code, suggestion string) {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code, coded.Suggestion
	}

	var dateErr *daily.DateParseError
	switch {
	case errors.As(err, &dateErr):
		return ErrDateInvalid, "Try an ISO date (2024-01-15), today, tomorrow or a phrase like \"next friday\""
	case errors.Is(err, daily.ErrNotebookNotFound):
		return ErrNotebookNotFound, "Configure the notebook under notebooks in tern.yaml"
	case errors.Is(err, config.ErrInvalid):
		return ErrConfigInvalid, ""
	case errors.Is(err, paths.ErrPathOutsideVault):
		return ErrFileOutsideVault, ""
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound, ""
	}
	return ErrInternal, ""
}

// Argument validators that report INVALID_INPUT instead of a bare error.
var (
	noArgs = wrapArgs(cobra.NoArgs)
)

func exactArgs(n int) cobra.PositionalArgs { return wrapArgs(cobra.ExactArgs(n)) }

func maximumNArgs(n int) cobra.PositionalArgs { return wrapArgs(cobra.MaximumNArgs(n)) }

func minimumNArgs(n int) cobra.PositionalArgs { return wrapArgs(cobra.MinimumNArgs(n)) }

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return newError(ErrInvalidInput, err, "Run '"+cmd.CommandPath()+" --help' for usage")
		}
		return nil
	}
}
