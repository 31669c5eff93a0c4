package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// InsufficientFundsResponse insufficient funds response
//
// Returned with 400 when amount plus the gas estimate exceeds the balance. Nothing was sent.
type InsufficientFundsResponse struct {

	// error
	// Required: true
	Error *string `json:"error"`

	// balance in ETH
	// Required: true
	Available json.Number `json:"available"`

	// requested amount in ETH
	// Required: true
	Requested json.Number `json:"requested"`

	// gas estimate in ETH
	// Required: true
	GasEstimate json.Number `json:"gasEstimate"`

	// largest amount that would currently succeed, in ETH
	// Required: true
	MaxWithdrawable json.Number `json:"maxWithdrawable"`

	// configured ETH price in USD
	// Required: true
	EthPrice json.Number `json:"ethPrice"`
}

// Validate validates this insufficient funds response
func (m *InsufficientFundsResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("error", "body", m.Error); err != nil {
		res = append(res, err)
	}

	res = append(res, validateNumbers(
		numberField{"available", m.Available},
		numberField{"requested", m.Requested},
		numberField{"gasEstimate", m.GasEstimate},
		numberField{"maxWithdrawable", m.MaxWithdrawable},
		numberField{"ethPrice", m.EthPrice},
	)...)

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}
