package util

import (
	"errors"
	"net/http"

	oerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api/httperrors"
)

// BindAndValidateBody binds the request body to v and validates the result.
// Malformed JSON and failed validations are reported as 400 HTTPErrors.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder, ok := c.Echo().Binder.(*echo.DefaultBinder)
	if !ok {
		return errors.New("echo binder is not a *echo.DefaultBinder")
	}

	if err := binder.BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to parse request body")

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code == http.StatusUnsupportedMediaType {
			return httperrors.NewFromEcho(echoErr)
		}

		return httperrors.NewHTTPError(http.StatusBadRequest, httperrors.ErrBadRequestMalformedBody.Message).WithInternal(err)
	}

	return validatePayload(c, v)
}

// ValidateAndReturn validates the response payload before sending it, an invalid payload is a
// programming error and turns into a 500.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload failed validation")
		return httperrors.NewHTTPError(http.StatusInternalServerError, httperrors.ErrInternalServerError.Message).WithInternal(err)
	}

	return c.JSON(code, v)
}

func validatePayload(c echo.Context, v runtime.Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	LogFromEchoContext(c).Debug().Err(err).Msg("Request payload failed validation")

	details := make([]*httperrors.HTTPValidationErrorDetail, 0)
	collectValidationErrors(err, &details)

	return httperrors.NewHTTPValidationError(http.StatusBadRequest, httperrors.ErrBadRequestMalformedBody.Message, details).WithInternal(err)
}

func collectValidationErrors(err error, details *[]*httperrors.HTTPValidationErrorDetail) {
	var composite *oerrors.CompositeError
	if errors.As(err, &composite) {
		for _, e := range composite.Errors {
			collectValidationErrors(e, details)
		}
		return
	}

	var validation *oerrors.Validation
	if errors.As(err, &validation) {
		*details = append(*details, &httperrors.HTTPValidationErrorDetail{
			Key:   validation.Name,
			In:    validation.In,
			Error: validation.Error(),
		})
		return
	}

	*details = append(*details, &httperrors.HTTPValidationErrorDetail{
		Key:   "body",
		In:    "body",
		Error: err.Error(),
	})
}
