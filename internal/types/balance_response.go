package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// BalanceResponse balance response
type BalanceResponse struct {

	// backend wallet address
	// Required: true
	// Pattern: ^0x[0-9a-fA-F]{40}$
	Address *string `json:"address"`

	// balance in ETH
	// Required: true
	Balance json.Number `json:"balance"`

	// balance in USD at the configured ETH price
	// Required: true
	BalanceUSD json.Number `json:"balanceUSD"`

	// gas estimate of one transfer in ETH
	// Required: true
	GasEstimate json.Number `json:"gasEstimate"`

	// largest amount a transfer could currently move, in ETH
	// Required: true
	MaxWithdrawable json.Number `json:"maxWithdrawable"`

	// configured ETH price in USD
	// Required: true
	EthPrice json.Number `json:"ethPrice"`
}

// Validate validates this balance response
func (m *BalanceResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("address", "body", *m.Address, `^0x[0-9a-fA-F]{40}$`); err != nil {
		res = append(res, err)
	}

	res = append(res, validateNumbers(
		numberField{"balance", m.Balance},
		numberField{"balanceUSD", m.BalanceUSD},
		numberField{"gasEstimate", m.GasEstimate},
		numberField{"maxWithdrawable", m.MaxWithdrawable},
		numberField{"ethPrice", m.EthPrice},
	)...)

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
