package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/committee-minutes/internal/meetings"
	"github.com/jonathan/committee-minutes/internal/parsing"
	"github.com/jonathan/committee-minutes/internal/storage"
	"github.com/jonathan/committee-minutes/internal/transcription"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUploadTooLarge indicates the request body exceeded the upload limit
type ErrUploadTooLarge struct {
	Limit int64
}

func (e *ErrUploadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds the %d byte limit", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		convErr     *parsing.DocumentConversionError
		reqErr      *ErrValidation
		svcErr      *meetings.ValidationError
		fieldErrs   validator.ValidationErrors
		tooLarge    *ErrUploadTooLarge
		maxBytesErr *http.MaxBytesError
		apiErr      *transcription.APICallError
		parseErr    *transcription.ParseError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &convErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &reqErr), errors.As(err, &svcErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, transcription.ErrEmptyAudio), errors.Is(err, transcription.ErrUnsupportedAudio):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge), errors.As(err, &maxBytesErr), errors.Is(err, transcription.ErrAudioTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, meetings.ErrMeetingNotFound), errors.Is(err, meetings.ErrDocumentNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, meetings.ErrMeetingConflict):
		return http.StatusConflict
	case errors.Is(err, meetings.ErrTranscriptionDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
