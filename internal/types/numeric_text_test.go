package types_test

import (
	"encoding/json"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/types"
)

func TestPostConvertPayloadAcceptsNumbersAndStrings(t *testing.T) {
	var body types.PostConvertPayload
	err := json.Unmarshal([]byte(`{
		"to": "0x00000000000000000000000000000000000000aa",
		"amount": 0.000000000000000001,
		"amountETH": " 1.5 ",
		"amountUSD": null,
		"percentage": "abc"
	}`), &body)
	require.NoError(t, err)

	assert.Equal(t, types.NumericText("0.000000000000000001"), body.Amount)
	assert.Equal(t, types.NumericText("1.5"), body.AmountETH)
	assert.Empty(t, body.AmountUSD.String())
	assert.Equal(t, types.NumericText("abc"), body.Percentage)
	require.NotNil(t, body.To)
	assert.Nil(t, body.Treasury)

	require.NoError(t, body.Validate(strfmt.Default))
}

func TestPostConvertPayloadRejectsObjectAmount(t *testing.T) {
	var body types.PostConvertPayload
	err := json.Unmarshal([]byte(`{"amount": {"value": 1}}`), &body)
	require.Error(t, err)
}

func TestPostConvertPayloadValidateTooLong(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	to := string(long)

	body := types.PostConvertPayload{
		To:     &to,
		Amount: types.NumericText(long),
	}
	require.Error(t, body.Validate(strfmt.Default))
}

func TestTransferResponseValidate(t *testing.T) {
	success := true
	txHash := "0x01"
	to := "0x00000000000000000000000000000000000000aa"
	block := uint64(12)

	res := &types.TransferResponse{
		Success:     &success,
		TxHash:      &txHash,
		Amount:      "0.5",
		AmountUSD:   "1500",
		EthPrice:    "3000",
		To:          &to,
		GasUsed:     "0.000042",
		BlockNumber: &block,
		Confirmed:   &success,
	}
	require.NoError(t, res.Validate(strfmt.Default))

	res.GasUsed = ""
	require.Error(t, res.Validate(strfmt.Default))

	res.GasUsed = "NaN"
	require.Error(t, res.Validate(strfmt.Default))
}
