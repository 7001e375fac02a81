package mockapi

import "net/http"

// apiError pairs an HTTP status with the message the storefront will
// show verbatim.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errNotFound(msg string) error  { return &apiError{status: http.StatusNotFound, message: msg} }
func errForbidden(msg string) error { return &apiError{status: http.StatusForbidden, message: msg} }
func errConflict(msg string) error  { return &apiError{status: http.StatusConflict, message: msg} }
