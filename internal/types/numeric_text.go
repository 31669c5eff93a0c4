package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// NumericText holds an amount exactly as the client sent it. Clients send amounts both as
// JSON numbers and as strings, both are accepted and kept as text so no precision is lost
// before the amount is parsed as a decimal. null and "" mean the field is absent.
type NumericText string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "failed to decode numeric string")
		}
		*n = NumericText(strings.TrimSpace(s))
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errors.Errorf("expected a number or a numeric string, got %s", string(data))
	}

	*n = NumericText(num.String())
	return nil
}

func (n NumericText) String() string {
	return string(n)
}
