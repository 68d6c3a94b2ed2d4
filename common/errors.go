package common

import (
	"fmt"
	"go-atm/logger"
	"io"
)

type AppError struct {
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(message string, err error) *AppError {
	return &AppError{
		Message: message,
		Err:     err,
	}
}

// Render prints the user-facing message on the machine screen. The internal
// cause, if any, goes to the operator log only.
func (e *AppError) Render(w io.Writer) {
	if e.Err != nil {
		logger.Log.WithField("internal_error", e.Err.Error()).Error(e.Message)
	}

	fmt.Fprintf(w, "Error: %s\n", e.Message)
}
