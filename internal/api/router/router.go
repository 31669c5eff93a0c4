package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/handlers"
	"github/chapool/eth-relay/internal/api/middleware"
)

func Init(s *api.Server) {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Logger.SetOutput(log.With().Str("component", "echo").Logger())

	s.Echo.HTTPErrorHandler = HTTPErrorHandler

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.RecoverWithConfig(echoMiddleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				log.Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
				return err
			},
		}))
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
			Generator: func() string {
				return uuid.New().String()
			},
		}))
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Level:           s.Config.Logger.RequestLevel,
		LogRequestBody:  s.Config.Logger.LogRequestBody,
		LogResponseBody: s.Config.Logger.LogResponseBody,
		Skipper: func(c echo.Context) bool {
			// probes and scrapes would drown the transfer logs
			return c.Path() == "/-/healthy" || c.Path() == "/metrics"
		},
	}))

	if s.Config.Echo.BodyLimit != "" {
		s.Echo.Use(echoMiddleware.BodyLimit(s.Config.Echo.BodyLimit))
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
				middleware.HeaderIdempotencyKey,
			},
			ExposeHeaders: []string{echo.HeaderXRequestID, middleware.HeaderIdempotencyHit},
		}))
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	if s.Config.Echo.EnablePrometheusMiddleware {
		s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "eth_relay",
			Subsystem:  "http",
			Registerer: s.Metrics.Registry(),
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
	} else {
		log.Warn().Msg("Disabling prometheus middleware due to environment config")
	}

	s.Router = &api.Router{
		Routes:     nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:       s.Echo.Group(""),
		Management: s.Echo.Group("/-"),
		Transfer:   s.Echo.Group(""),
	}

	if s.Redis != nil {
		s.Router.Transfer.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Redis:       s.Redis,
			TTL:         s.Config.Idempotency.TTL,
			LockTimeout: s.Config.Idempotency.LockTimeout,
		}))
	} else {
		log.Info().Msg("Idempotency guard disabled, REDIS_ADDR is not set")
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)
}
