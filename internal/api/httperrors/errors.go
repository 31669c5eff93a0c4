package httperrors

import (
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is the JSON body of every non-2xx relay response.
// Message is rendered as "error" and Code as the optional machine readable "code".
type HTTPError struct {
	HTTPStatus       int                          `json:"-"`
	Message          string                       `json:"error"`
	Code             string                       `json:"code,omitempty"`
	TxHash           string                       `json:"txHash,omitempty"`
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors,omitempty"`
	Internal         error                        `json:"-"`
}

// HTTPValidationErrorDetail describes a single invalid request field.
type HTTPValidationErrorDetail struct {
	Key   string `json:"key"`
	In    string `json:"in"`
	Error string `json:"error"`
}

func NewHTTPError(httpStatus int, message string) *HTTPError {
	return &HTTPError{
		HTTPStatus: httpStatus,
		Message:    message,
	}
}

func NewHTTPErrorWithCode(httpStatus int, message string, code string) *HTTPError {
	return &HTTPError{
		HTTPStatus: httpStatus,
		Message:    message,
		Code:       code,
	}
}

func NewHTTPValidationError(httpStatus int, message string, validationErrors []*HTTPValidationErrorDetail) *HTTPError {
	return &HTTPError{
		HTTPStatus:       httpStatus,
		Message:          message,
		ValidationErrors: validationErrors,
	}
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d: %s", e.HTTPStatus, e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}

	if len(e.ValidationErrors) > 0 {
		b.WriteString(" - Validation:")
		for _, ve := range e.ValidationErrors {
			fmt.Fprintf(&b, " %s (in %s): %s", ve.Key, ve.In, ve.Error)
		}
	}

	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// WithInternal attaches the error that caused e, it is logged but never rendered.
func (e *HTTPError) WithInternal(err error) *HTTPError {
	e.Internal = err
	return e
}

var (
	ErrBadRequestMalformedBody = NewHTTPError(http.StatusBadRequest, "Invalid request body")
	ErrInternalServerError     = NewHTTPError(http.StatusInternalServerError, "Internal server error")
)
