package relay

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/httperrors"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/types"
	"github/chapool/eth-relay/internal/util"
)

const (
	CodePriceReferenceUnset = "PRICE_REFERENCE_UNSET"

	msgInsufficientBalance = "Insufficient balance (need amount + gas)"
)

// transferHandler binds the canonical payload, applies the route's alias normalizer and runs
// the transfer. All transfer routes share it, they only differ in normalize.
func transferHandler(s *api.Server, normalize func(req *relay.Request)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostConvertPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		req := requestFromPayload(&body)
		normalize(req)

		event := log.Info().Str("route", c.Path())
		if key, ok := util.IdempotencyKeyFromContext(ctx); ok {
			event = event.Str("idempotency_key", key)
		}
		event.Msg("Transfer requested")

		outcome, err := s.Relay.Transfer(ctx, req)
		if err != nil {
			return transferError(c, s.Relay.Config(), err)
		}

		response := &types.TransferResponse{
			Success:     swag.Bool(true),
			TxHash:      swag.String(outcome.TxHash),
			Amount:      number(outcome.Amount),
			AmountUSD:   number(outcome.AmountUSD),
			EthPrice:    number(outcome.PriceReference),
			To:          swag.String(outcome.To.Hex()),
			GasUsed:     number(outcome.GasUsed),
			BlockNumber: swag.Uint64(outcome.BlockNumber),
			Confirmed:   swag.Bool(true),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func requestFromPayload(body *types.PostConvertPayload) *relay.Request {
	return &relay.Request{
		To:         swag.StringValue(body.To),
		ToAddress:  swag.StringValue(body.ToAddress),
		Treasury:   swag.StringValue(body.Treasury),
		AmountETH:  body.AmountETH.String(),
		Amount:     body.Amount.String(),
		AmountUSD:  body.AmountUSD.String(),
		Percentage: body.Percentage.String(),
	}
}

// transferError maps relay errors to responses. Validation failures are 400, everything the
// wallet or node reports is 500 with the node's message, its code and, if the transfer was
// broadcast, the transaction hash.
func transferError(c echo.Context, cfg relay.Config, err error) error {
	var insufficient *relay.InsufficientFundsError
	var external *relay.ExternalError

	switch {
	case errors.Is(err, relay.ErrMissingDestination):
		return httperrors.NewHTTPError(http.StatusBadRequest, "Missing destination address").WithInternal(err)
	case errors.Is(err, relay.ErrInvalidDestination):
		return httperrors.NewHTTPError(http.StatusBadRequest, "Invalid destination address").WithInternal(err)
	case errors.Is(err, relay.ErrInvalidAmount):
		return httperrors.NewHTTPError(http.StatusBadRequest, "Invalid amount").WithInternal(err)
	case errors.Is(err, relay.ErrPriceReferenceUnset):
		return httperrors.NewHTTPErrorWithCode(http.StatusInternalServerError, "ETH price is not configured", CodePriceReferenceUnset).WithInternal(err)
	case errors.As(err, &insufficient):
		util.LogFromEchoContext(c).Info().Err(err).Msg("Transfer rejected")
		return util.ValidateAndReturn(c, http.StatusBadRequest, &types.InsufficientFundsResponse{
			Error:           swag.String(msgInsufficientBalance),
			Available:       number(insufficient.Available),
			Requested:       number(insufficient.Requested),
			GasEstimate:     number(insufficient.GasEstimate),
			MaxWithdrawable: number(insufficient.MaxWithdrawable),
			EthPrice:        number(cfg.PriceReference),
		})
	case errors.As(err, &external):
		httpErr := httperrors.NewHTTPErrorWithCode(http.StatusInternalServerError, external.Message(), external.Code)
		httpErr.TxHash = external.TxHash
		return httpErr.WithInternal(err)
	default:
		return httperrors.NewHTTPError(http.StatusInternalServerError, err.Error()).WithInternal(err)
	}
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
