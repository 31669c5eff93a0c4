package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	maxAddressLength = 128
	maxAmountLength  = 80
)

// PostConvertPayload post convert payload
//
// Body of /convert and its alias routes. Every field is optional, the relay decides which
// destination and amount fields win.
type PostConvertPayload struct {

	// Destination address, highest precedence.
	To *string `json:"to,omitempty"`

	// Destination address, used when to is absent.
	ToAddress *string `json:"toAddress,omitempty"`

	// Destination address, used when to and toAddress are absent.
	Treasury *string `json:"treasury,omitempty"`

	// Native amount in ETH, alias of amountETH.
	Amount NumericText `json:"amount,omitempty"`

	// Native amount in ETH.
	AmountETH NumericText `json:"amountETH,omitempty"`

	// Fiat amount in USD, converted with the configured ETH price.
	AmountUSD NumericText `json:"amountUSD,omitempty"`

	// Percentage of the balance (minus a gas reserve), overrides any explicit amount.
	Percentage NumericText `json:"percentage,omitempty"`
}

// Validate validates this post convert payload
func (m *PostConvertPayload) Validate(formats strfmt.Registry) error {
	var res []error

	addresses := []struct {
		name  string
		value *string
	}{
		{"to", m.To},
		{"toAddress", m.ToAddress},
		{"treasury", m.Treasury},
	}
	for _, field := range addresses {
		if field.value == nil {
			continue
		}
		if err := validate.MaxLength(field.name, "body", *field.value, maxAddressLength); err != nil {
			res = append(res, err)
		}
	}

	amounts := []struct {
		name  string
		value NumericText
	}{
		{"amount", m.Amount},
		{"amountETH", m.AmountETH},
		{"amountUSD", m.AmountUSD},
		{"percentage", m.Percentage},
	}
	for _, field := range amounts {
		if err := validate.MaxLength(field.name, "body", field.value.String(), maxAmountLength); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

// MarshalBinary interface implementation
func (m *PostConvertPayload) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *PostConvertPayload) UnmarshalBinary(b []byte) error {
	var res PostConvertPayload
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
