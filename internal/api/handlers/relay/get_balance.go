package relay

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/types"
	"github/chapool/eth-relay/internal/util"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/balance", getBalanceHandler(s))
}

func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		quote, err := s.Relay.Quote(ctx)
		if err != nil {
			util.LogFromContext(ctx).Error().Err(err).Msg("Failed to quote backend wallet")
			return transferError(c, s.Relay.Config(), err)
		}

		response := &types.BalanceResponse{
			Address:         swag.String(quote.Address.Hex()),
			Balance:         number(quote.Balance),
			BalanceUSD:      number(quote.BalanceUSD),
			GasEstimate:     number(quote.GasEstimate),
			MaxWithdrawable: number(quote.MaxWithdrawable),
			EthPrice:        number(quote.PriceReference),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
