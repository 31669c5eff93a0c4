package types

import (
	"encoding/json"

	"github.com/go-openapi/validate"
)

const numberPattern = `^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`

type numberField struct {
	name  string
	value json.Number
}

// validateNumbers requires every field to be set and to hold a valid JSON number.
func validateNumbers(fields ...numberField) []error {
	var res []error
	for _, field := range fields {
		if err := validate.RequiredString(field.name, "body", field.value.String()); err != nil {
			res = append(res, err)
			continue
		}
		if err := validate.Pattern(field.name, "body", field.value.String(), numberPattern); err != nil {
			res = append(res, err)
		}
	}
	return res
}
