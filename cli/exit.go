package cli

import "fmt"

// Exit codes.
const (
	exitFailure = 1 // a task failed
	exitUsage   = 2 // bad arguments or flags
)

// ExitError is an error that carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
