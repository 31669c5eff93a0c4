package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/handlers/common"
	"github/chapool/eth-relay/internal/api/handlers/relay"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		relay.GetBalanceRoute(s),
		relay.PostBackendToCoinbaseRoute(s),
		relay.PostCoinbaseWithdrawRoute(s),
		relay.PostConvertRoute(s),
		relay.PostSendETHRoute(s),
		relay.PostSendToCoinbaseRoute(s),
		relay.PostTreasuryToCoinbaseRoute(s),
		relay.PostWithdrawRoute(s),
	}
}
