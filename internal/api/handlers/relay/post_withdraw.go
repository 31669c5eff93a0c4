package relay

import (
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/relay"
)

func PostWithdrawRoute(s *api.Server) *echo.Route {
	return s.Router.Transfer.POST("/withdraw", postWithdrawHandler(s))
}

func postWithdrawHandler(s *api.Server) echo.HandlerFunc {
	return transferHandler(s, relay.NormalizeWithdraw)
}
