package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/eth-relay/internal/util"
)

// LoggerConfig configures the request logger. Every request gets a child logger carrying its
// request id, stored in the request context and retrievable with util.LogFromContext.
type LoggerConfig struct {
	Skipper         middleware.Skipper
	Level           zerolog.Level
	LogRequestBody  bool
	LogResponseBody bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper:         middleware.DefaultSkipper,
	Level:           zerolog.InfoLevel,
	LogRequestBody:  false,
	LogResponseBody: false,
}

type bodyDumpResponseWriter struct {
	io.Writer
	http.ResponseWriter
}

func (w *bodyDumpResponseWriter) WriteHeader(code int) {
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyDumpResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func (w *bodyDumpResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			logger := log.With().Str("id", id).Logger()
			ctx := logger.WithContext(context.WithValue(req.Context(), util.CTXKeyRequestID, id))
			c.SetRequest(req.WithContext(ctx))

			if config.Skipper(c) {
				return next(c)
			}

			var reqBody []byte
			if config.LogRequestBody && req.Body != nil {
				var err error
				reqBody, err = io.ReadAll(req.Body)
				if err != nil {
					logger.Warn().Err(err).Msg("Failed to read request body for logging")
				}
				req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
			}

			resBody := new(bytes.Buffer)
			if config.LogResponseBody {
				mw := io.MultiWriter(res.Writer, resBody)
				res.Writer = &bodyDumpResponseWriter{Writer: mw, ResponseWriter: res.Writer}
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			stop := time.Now()

			lvl := config.Level
			if res.Status >= http.StatusInternalServerError {
				lvl = zerolog.ErrorLevel
			}

			in := logger.WithLevel(lvl).
				Str("method", req.Method).
				Str("url", req.URL.String()).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent())
			if config.LogRequestBody {
				in = in.Str("req_body", strings.TrimSpace(string(reqBody)))
			}

			out := zerolog.Dict().
				Int("status", res.Status).
				Int64("bytes", res.Size).
				Dur("duration_ms", stop.Sub(start))
			if config.LogResponseBody {
				out = out.Str("res_body", strings.TrimSpace(resBody.String()))
			}

			in.Dict("res", out).Msg("Request handled")

			// the error was handled by c.Error above
			return nil
		}
	}
}
