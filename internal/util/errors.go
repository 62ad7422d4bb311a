package util

import "fmt"

// ResponseError is an error that already knows which HTTP status it maps to.
// Used for validation failures surfaced at the controller boundary.
type ResponseError struct {
	Msg    string
	Status int
}

func (e ResponseError) Error() string { return e.Msg }

func NewResponseError(status int, format string, args ...interface{}) error {
	return ResponseError{
		Msg:    fmt.Sprintf(format, args...),
		Status: status,
	}
}
