package anonymize

import (
	"errors"
	"fmt"
)

// ErrLoginRetriesExhausted reports that the unique-login loop ran out
// of attempts. Practically unreachable outside pathological datasets.
var ErrLoginRetriesExhausted = errors.New("exhausted unique login attempts")

// ConfigurationError is an invalid or contextually illegal option
// value. Always fatal before any record is touched.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// ResolutionError is a --keep token that matched no user while
// --skip-not-found was absent.
type ResolutionError struct {
	Token string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve --keep token %q to a user", e.Token)
}
