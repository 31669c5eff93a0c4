package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/httperrors"
)

// GenericPayload is a JSON object used for ad-hoc request bodies.
type GenericPayload map[string]any

// PerformRequest runs a request against the server without a network round trip.
// body is sent as is if it is a string or []byte, JSON encoded otherwise.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewBuffer(b)
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body")
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseBody decodes the JSON response body into v.
func ParseResponseBody(t *testing.T, res *httptest.ResponseRecorder, v any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "Failed to parse response body: %s", res.Body.String())
}

// RequireHTTPError asserts res carries the status and message of httpError.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpError *httperrors.HTTPError) *httperrors.HTTPError {
	t.Helper()

	var response httperrors.HTTPError
	ParseResponseBody(t, res, &response)
	response.HTTPStatus = res.Code

	require.Equal(t, httpError.HTTPStatus, response.HTTPStatus)
	require.Equal(t, httpError.Message, response.Message)
	if httpError.Code != "" {
		require.Equal(t, httpError.Code, response.Code)
	}

	return &response
}
