package relay

import (
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/relay"
)

// The coinbase routes are kept for existing clients, they behave exactly like /convert.

func PostCoinbaseWithdrawRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/coinbase-withdraw", transferHandler(s, relay.NormalizeConvert))
}

func PostSendToCoinbaseRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/send-to-coinbase", transferHandler(s, relay.NormalizeConvert))
}

func PostBackendToCoinbaseRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/backend-to-coinbase", transferHandler(s, relay.NormalizeConvert))
}

func PostTreasuryToCoinbaseRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/treasury-to-coinbase", transferHandler(s, relay.NormalizeConvert))
}
