package common

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/util"
)

// StatusNotReady is returned while a dependency of the relay is unavailable.
const StatusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when our Service is ready to serve traffic, i.e. the wallet node
// and, if configured, the idempotency store answer.
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), s.Config.Management.ReadinessTimeout)
		defer cancel()

		if err := s.Probe(ctx); err != nil {
			util.LogFromEchoContext(c).Warn().Err(err).Msg("Readiness probe failed")
			return c.String(StatusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
