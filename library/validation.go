package library

import (
	"strings"
)

// ValidationError collects every failed check of an input entity so callers
// can report all problems at once instead of the first one found.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}

// orNil returns nil when no check failed, so that callers can return the
// result directly without a typed-nil error sneaking into the error chain.
func (e *ValidationError) orNil() error {
	if len(e.Messages) == 0 {
		return nil
	}

	return e
}
