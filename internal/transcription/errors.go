package transcription

import (
	"errors"
	"fmt"
)

// Validation errors for uploaded recordings.
var (
	ErrEmptyAudio       = errors.New("audio recording is empty")
	ErrAudioTooLarge    = errors.New("audio recording exceeds the inline size limit")
	ErrUnsupportedAudio = errors.New("unsupported audio media type")
)

// APICallError represents an error from the model API call
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcription API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transcription API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error reading the model response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse transcription: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse transcription: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
