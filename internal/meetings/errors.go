package meetings

import (
	"errors"
	"fmt"
)

var (
	// ErrMeetingNotFound is returned when a meeting ID does not exist.
	ErrMeetingNotFound = errors.New("meeting not found")
	// ErrDocumentNotFound is returned when a document ID does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMeetingConflict is returned when a meeting kept changing while
	// minutes were merged into it.
	ErrMeetingConflict = errors.New("meeting was modified concurrently")
	// ErrTranscriptionDisabled is returned when no transcriber is configured.
	ErrTranscriptionDisabled = errors.New("transcription is not configured")
)

// ValidationError wraps invalid client input.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid request: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
