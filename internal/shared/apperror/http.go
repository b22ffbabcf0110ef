package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps an error to its HTTP representation. Anything that is not an
// *AppError is collapsed into a generic 500 so internal detail never leaks
// to the client.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
