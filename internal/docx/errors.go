package docx

import "fmt"

// ConversionError is returned when a payload cannot be converted to HTML.
type ConversionError struct {
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("docx conversion failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("docx conversion failed: %s", e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}
