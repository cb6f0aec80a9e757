package errors

import (
	stderrors "errors"
	"fmt"
)

// FatalConfigError marks a misconfiguration the initializers refuse to work
// around. The host's startup sequence is expected to halt on it; everything
// else the bootstrap layer downgrades to a logged warning.
type FatalConfigError struct {
	Setting string
	Reason  string
}

func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("fatal configuration error: %s: %s", e.Setting, e.Reason)
}

// FatalConfig creates a FatalConfigError for the given setting.
func FatalConfig(setting, reason string) error {
	return &FatalConfigError{Setting: setting, Reason: reason}
}

// IsFatalConfig reports whether err is, or wraps, a FatalConfigError.
func IsFatalConfig(err error) bool {
	var fce *FatalConfigError
	return stderrors.As(err, &fce)
}
