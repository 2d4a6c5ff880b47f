package storage

import (
	"errors"
	"time"
)

// ErrDuplicateEmail reports an attempt to register an email twice.
var ErrDuplicateEmail = errors.New("email already registered")

// CompletionNote renders the text appended to a record's observations when a
// care is completed. Both storage backends use it so the stored history is
// byte-identical regardless of backend.
func CompletionNote(note string, now time.Time) string {
	stamp := now.Format("02/01/2006")
	if note != "" {
		return "\n\nCompleted on " + stamp + ": " + note
	}
	return "\n\nCompleted on " + stamp
}
