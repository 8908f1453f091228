package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/view"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The API rejected the request, e.g. validation
	ExitCommandError = 2 // Bad flags, unreadable config, unreachable API
)

// ExitError carries the process exit code for a command failure.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// requestError classifies a failed request: validation failures are the
// caller's fault, anything else is a command error.
func requestError(message string, err error) error {
	if verr, ok := api.AsValidationError(err); ok {
		return WrapExitError(ExitFailure, message, errors.New(view.ValidationSummary(verr)))
	}
	return WrapExitError(ExitCommandError, message, err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Color  bool
	Writer io.Writer
}

func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Print writes data as JSON in json mode, or text otherwise.
func (f *OutputFormatter) Print(data any, text string) error {
	if !f.JSON() {
		_, err := fmt.Fprintln(f.Writer, text)
		return err
	}
	if f.Color {
		out, err := view.RenderJSON(data, true)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.Writer, out)
		return err
	}

	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
