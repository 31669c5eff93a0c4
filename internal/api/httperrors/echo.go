package httperrors

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// NewFromEcho converts echo's own errors (404 on unknown routes, 405, bind failures...) into
// an HTTPError, keeping the status code.
func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return &HTTPError{
		HTTPStatus: e.Code,
		Message:    fmt.Sprintf("%v", e.Message),
		Internal:   e.Internal,
	}
}
