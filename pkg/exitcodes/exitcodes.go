// Package exitcodes provides centralized exit code definitions for the imgtype CLI.
// Exit codes are organized in ranges to categorize different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, invalid config)
//	10-19: Analysis Errors (e.g., missing base type, invalid model)
//	20-29: Runtime Errors (e.g., I/O errors)
//	30-39: Internal Errors
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitIdentifierConfigError   = 3 // Image identifier tables are invalid
	ExitModelNotFound           = 4 // Deployment model file not found

	// Analysis Errors (10-19)
	ExitModelParsingError = 10 // Failed to decode the deployment model
	ExitNoComponents      = 11 // No components requested for analysis
	ExitMissingBaseType   = 12 // Model lacks the BaseType component type
	ExitModelInvalid      = 13 // Model violates a structural invariant
	ExitTaskFailed        = 14 // Analysis task produced a failure response

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20 // General runtime/system error
	ExitIOError             = 21 // IO operation error

	// Internal Errors (30-39)
	ExitInternalError = 30 // Internal error in command execution
)

// ExitCodeError wraps an error with an exit code so that commands can propagate
// both the failure and the process exit status up to main.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitIdentifierConfigError:   "Image identifier tables are invalid",
	ExitModelNotFound:           "Deployment model file not found",
	ExitModelParsingError:       "Failed to decode the deployment model",
	ExitNoComponents:            "No components requested for analysis",
	ExitMissingBaseType:         "Model lacks the BaseType component type",
	ExitModelInvalid:            "Model violates a structural invariant",
	ExitTaskFailed:              "Analysis task produced a failure response",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitInternalError:           "Internal error in command execution",
}
