package model

import "fmt"

// ValidationError reports a rejected field value on a write operation.
// The request layer surfaces Field and Message to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for field with the given message.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
