package relay

import (
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/relay"
)

func PostConvertRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/convert", postConvertHandler(s))
}

// postConvertHandler is the primary transfer endpoint, the body is the canonical request.
func postConvertHandler(s *api.Server) echo.HandlerFunc {
	return transferHandler(s, relay.NormalizeConvert)
}
