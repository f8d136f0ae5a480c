package parsing

import "fmt"

// DocumentConversionError is returned when the uploaded bytes cannot be turned
// into HTML. It is the only error a parse call returns; every other gap is
// reported in-band as an empty field.
type DocumentConversionError struct {
	Filename string
	Message  string
	Cause    error
}

func (e *DocumentConversionError) Error() string {
	name := e.Filename
	if name == "" {
		name = "document"
	}
	if e.Cause != nil {
		return fmt.Sprintf("could not convert %s: %s: %v", name, e.Message, e.Cause)
	}
	return fmt.Sprintf("could not convert %s: %s", name, e.Message)
}

func (e *DocumentConversionError) Unwrap() error {
	return e.Cause
}
