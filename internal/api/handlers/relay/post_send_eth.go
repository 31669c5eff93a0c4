package relay

import (
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/relay"
)

func PostSendETHRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/send-eth", postSendETHHandler(s))
}

// postSendETHHandler treats "amount" as the ETH amount and "treasury" as the destination
// fallback.
func postSendETHHandler(s *api.Server) echo.HandlerFunc {
	return transferHandler(s, relay.NormalizeSendETH)
}
