package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api/httperrors"
	"github/chapool/eth-relay/internal/util"
)

// HTTPErrorHandler renders every error returned by a handler or middleware as JSON.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	log := util.LogFromEchoContext(c)

	var httpError *httperrors.HTTPError
	var echoHTTPError *echo.HTTPError
	switch {
	case errors.As(err, &httpError):
	case errors.As(err, &echoHTTPError):
		httpError = httperrors.NewFromEcho(echoHTTPError)
	default:
		log.Error().Err(err).Msg("Unhandled error while processing request")
		httpError = &httperrors.HTTPError{
			HTTPStatus: http.StatusInternalServerError,
			Message:    err.Error(),
			Internal:   err,
		}
	}

	if httpError.HTTPStatus >= http.StatusInternalServerError {
		log.Error().Err(httpError).Int("status", httpError.HTTPStatus).Msg("Request failed")
	} else {
		log.Debug().Err(httpError).Int("status", httpError.HTTPStatus).Msg("Request rejected")
	}

	var resErr error
	if c.Request().Method == http.MethodHead {
		resErr = c.NoContent(httpError.HTTPStatus)
	} else {
		resErr = c.JSON(httpError.HTTPStatus, httpError)
	}

	if resErr != nil {
		log.Error().Err(resErr).AnErr("http_err", err).Msg("Failed to handle HTTP error")
	}
}
