package types

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// TransferResponse transfer response
//
// Returned once the transfer is confirmed. Amounts are in ETH unless suffixed USD.
type TransferResponse struct {

	// success
	// Required: true
	Success *bool `json:"success"`

	// Hash of the confirmed transaction.
	// Required: true
	TxHash *string `json:"txHash"`

	// amount
	// Required: true
	Amount json.Number `json:"amount"`

	// amount in USD at the configured ETH price
	// Required: true
	AmountUSD json.Number `json:"amountUSD"`

	// configured ETH price in USD
	// Required: true
	EthPrice json.Number `json:"ethPrice"`

	// destination address
	// Required: true
	To *string `json:"to"`

	// gas paid in ETH
	// Required: true
	GasUsed json.Number `json:"gasUsed"`

	// block number
	// Required: true
	BlockNumber *uint64 `json:"blockNumber"`

	// confirmed
	// Required: true
	Confirmed *bool `json:"confirmed"`
}

// Validate validates this transfer response
func (m *TransferResponse) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("success", "body", m.Success); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("txHash", "body", m.TxHash); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("to", "body", m.To); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("blockNumber", "body", m.BlockNumber); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("confirmed", "body", m.Confirmed); err != nil {
		res = append(res, err)
	}

	res = append(res, validateNumbers(
		numberField{"amount", m.Amount},
		numberField{"amountUSD", m.AmountUSD},
		numberField{"ethPrice", m.EthPrice},
		numberField{"gasUsed", m.GasUsed},
	)...)

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// MarshalBinary interface implementation
func (m *TransferResponse) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *TransferResponse) UnmarshalBinary(b []byte) error {
	var res TransferResponse
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
