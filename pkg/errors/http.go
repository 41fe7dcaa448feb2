package errors

import "fmt"

// HTTPError is a transport-level error carrying the status code the
// delivery layer should answer with.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// StatusCode returns the HTTP status to respond with.
func (e HTTPError) StatusCode() int {
	return e.Code
}

// NewHTTPError creates an HTTPError with the given status and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}
