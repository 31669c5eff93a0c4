package relay_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/metrics"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/test"
)

const destination = "0x00000000000000000000000000000000000000d1"

func eth(s string) *big.Int {
	return decimal.RequireFromString(s).Shift(18).BigInt()
}

func newService(t *testing.T, cfg relay.Config) (*relay.Service, *test.FakeWallet, *metrics.Service) {
	t.Helper()

	m, err := metrics.New()
	require.NoError(t, err)

	w := test.NewFakeWallet()
	clock := time2.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	return relay.NewService(cfg, w, m, clock), w, m
}

func defaultConfig() relay.Config {
	return relay.Config{
		DefaultDestination: test.TestBackendWallet,
		PriceReference:     decimal.NewFromInt(3500),
	}
}

func TestTransferNativeAmount(t *testing.T) {
	s, w, m := newService(t, defaultConfig())

	outcome, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.25"})
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("0.25").Equal(outcome.Amount))
	assert.True(t, decimal.RequireFromString("875").Equal(outcome.AmountUSD))
	assert.True(t, decimal.NewFromInt(3500).Equal(outcome.PriceReference))
	assert.Equal(t, common.HexToAddress(destination), outcome.To)
	assert.NotEmpty(t, outcome.TxHash)
	assert.Positive(t, outcome.BlockNumber)
	// 21000 gas at 1 gwei
	assert.True(t, decimal.RequireFromString("0.000021").Equal(outcome.GasUsed), outcome.GasUsed.String())

	subs := w.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, common.HexToAddress(destination), subs[0].To)
	assert.Equal(t, 0, eth("0.25").Cmp(subs[0].Value))
	assert.Equal(t, relay.NativeTransferGas, subs[0].Fee.GasLimit)
	assert.Equal(t, int64(2_000_000_000), subs[0].Fee.MaxFeePerGas.Int64())
	assert.Equal(t, int64(2_000_000_000), subs[0].Fee.MaxPriorityFeePerGas.Int64())

	count, err := m.TransferCount(metrics.OutcomeSuccess)
	require.NoError(t, err)
	assert.InDelta(t, 1, count, 0)
}

func TestTransferDestinationPrecedence(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())

	_, err := s.Transfer(t.Context(), &relay.Request{
		To:        "0x00000000000000000000000000000000000000a1",
		ToAddress: "0x00000000000000000000000000000000000000a2",
		Treasury:  "0x00000000000000000000000000000000000000a3",
		AmountETH: "0.1",
	})
	require.NoError(t, err)

	_, err = s.Transfer(t.Context(), &relay.Request{AmountETH: "0.1"})
	require.NoError(t, err)

	subs := w.Submissions()
	require.Len(t, subs, 2)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000a1"), subs[0].To)
	assert.Equal(t, common.HexToAddress(test.TestBackendWallet), subs[1].To)
}

func TestTransferFiatAmount(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())

	outcome, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountUSD: "350"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.1").Equal(outcome.Amount), outcome.Amount.String())

	// native wins over fiat
	outcome, err = s.Transfer(t.Context(), &relay.Request{To: destination, Amount: "0.2", AmountUSD: "350"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.2").Equal(outcome.Amount), outcome.Amount.String())

	require.Len(t, w.Submissions(), 2)
}

func TestTransferPercentageOverridesAmount(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())
	w.SetBalance(eth("10"))

	outcome, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "1", Percentage: "50"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4.9985").Equal(outcome.Amount), outcome.Amount.String())

	subs := w.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, 0, eth("4.9985").Cmp(subs[0].Value))
}

func TestTransferPercentageOnly(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())
	w.SetBalance(eth("10"))

	outcome, err := s.Transfer(t.Context(), &relay.Request{To: destination, Percentage: "10"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.9997").Equal(outcome.Amount), outcome.Amount.String())
}

func TestTransferPercentageOfDustBalance(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())
	w.SetBalance(eth("0.002"))

	_, err := s.Transfer(t.Context(), &relay.Request{To: destination, Percentage: "100"})
	require.ErrorIs(t, err, relay.ErrInvalidAmount)
	assert.Empty(t, w.Submissions())
}

func TestTransferInsufficientFunds(t *testing.T) {
	s, w, m := newService(t, defaultConfig())
	w.SetBalance(eth("1"))
	w.SetGasPrice(big.NewInt(20_000_000_000))

	_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "1"})
	require.Error(t, err)

	var insufficient *relay.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, decimal.NewFromInt(1).Equal(insufficient.Available))
	assert.True(t, decimal.NewFromInt(1).Equal(insufficient.Requested))
	assert.True(t, decimal.RequireFromString("0.00084").Equal(insufficient.GasEstimate), insufficient.GasEstimate.String())
	assert.True(t, decimal.RequireFromString("0.99866").Equal(insufficient.MaxWithdrawable), insufficient.MaxWithdrawable.String())

	assert.Empty(t, w.Submissions())

	count, err := m.TransferCount(metrics.OutcomeInsufficientFunds)
	require.NoError(t, err)
	assert.InDelta(t, 1, count, 0)
}

func TestTransferPercentageAboveHundredIsInsufficient(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())
	w.SetBalance(eth("10"))

	_, err := s.Transfer(t.Context(), &relay.Request{To: destination, Percentage: "150"})

	var insufficient *relay.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, decimal.NewFromInt(10).Equal(insufficient.Available))
	assert.True(t, decimal.RequireFromString("14.9955").Equal(insufficient.Requested), insufficient.Requested.String())
	assert.True(t, insufficient.MaxWithdrawable.IsPositive())
	assert.Empty(t, w.Submissions())
}

func TestTransferInvalidAmountRegardlessOfOtherFields(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())

	for _, req := range []relay.Request{
		{To: destination},
		{To: destination, AmountETH: "0"},
		{To: destination, AmountETH: "-1", AmountUSD: "350"},
		{To: destination, Amount: "0", Percentage: "50"},
		{To: destination, AmountUSD: "-3"},
		{To: destination, AmountETH: "ten"},
		{To: destination, Percentage: "0"},
		// below one wei
		{To: destination, AmountETH: "0.0000000000000000001"},
	} {
		_, err := s.Transfer(t.Context(), &req)
		require.ErrorIs(t, err, relay.ErrInvalidAmount, "request %+v", req)
	}

	assert.Empty(t, w.Submissions())
}

func TestTransferMissingDestination(t *testing.T) {
	cfg := defaultConfig()
	cfg.DefaultDestination = ""
	s, w, m := newService(t, cfg)

	_, err := s.Transfer(t.Context(), &relay.Request{AmountETH: "0.1"})
	require.ErrorIs(t, err, relay.ErrMissingDestination)
	assert.Empty(t, w.Submissions())

	count, err := m.TransferCount(metrics.OutcomeMissingDestination)
	require.NoError(t, err)
	assert.InDelta(t, 1, count, 0)
}

func TestTransferPriceReferenceUnset(t *testing.T) {
	cfg := defaultConfig()
	cfg.PriceReference = decimal.Zero
	s, w, _ := newService(t, cfg)

	_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountUSD: "350"})
	require.ErrorIs(t, err, relay.ErrPriceReferenceUnset)
	assert.Empty(t, w.Submissions())

	// native amounts do not need a price
	outcome, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.1"})
	require.NoError(t, err)
	assert.True(t, outcome.AmountUSD.IsZero())
}

func TestTransferIsNotIdempotent(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())

	req := relay.Request{To: destination, AmountETH: "0.1"}

	first, err := s.Transfer(t.Context(), &req)
	require.NoError(t, err)
	second, err := s.Transfer(t.Context(), &req)
	require.NoError(t, err)

	assert.NotEqual(t, first.TxHash, second.TxHash)
	assert.Len(t, w.Submissions(), 2)
}

func TestTransferExternalFailures(t *testing.T) {
	nodeDown := errors.New("connection refused")

	t.Run("balance", func(t *testing.T) {
		s, w, m := newService(t, defaultConfig())
		w.BalanceErr = nodeDown

		_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.1"})

		var external *relay.ExternalError
		require.ErrorAs(t, err, &external)
		assert.Equal(t, "get balance", external.Op)
		require.ErrorIs(t, err, nodeDown)

		count, err := m.TransferCount(metrics.OutcomeExternalFailure)
		require.NoError(t, err)
		assert.InDelta(t, 1, count, 0)
	})

	t.Run("gas price", func(t *testing.T) {
		s, w, _ := newService(t, defaultConfig())
		w.GasPriceErr = nodeDown

		_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.1"})

		var external *relay.ExternalError
		require.ErrorAs(t, err, &external)
		assert.Equal(t, "get gas price", external.Op)
	})

	t.Run("submit keeps code and tx hash", func(t *testing.T) {
		s, w, _ := newService(t, defaultConfig())
		w.SubmitErr = &relay.ExternalError{
			Op:     "wait for confirmation",
			Code:   "TIMEOUT",
			TxHash: "0xabc",
			Err:    context.DeadlineExceeded,
		}

		_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.1"})

		var external *relay.ExternalError
		require.ErrorAs(t, err, &external)
		assert.Equal(t, "wait for confirmation", external.Op)
		assert.Equal(t, "TIMEOUT", external.Code)
		assert.Equal(t, "0xabc", external.TxHash)
		assert.Equal(t, context.DeadlineExceeded.Error(), external.Message())
	})

	t.Run("submit plain error", func(t *testing.T) {
		s, w, _ := newService(t, defaultConfig())
		w.SubmitErr = nodeDown

		_, err := s.Transfer(t.Context(), &relay.Request{To: destination, AmountETH: "0.1"})

		var external *relay.ExternalError
		require.ErrorAs(t, err, &external)
		assert.Equal(t, "submit transfer", external.Op)
		assert.Empty(t, external.TxHash)
	})
}

func TestQuote(t *testing.T) {
	s, w, _ := newService(t, defaultConfig())
	w.SetBalance(eth("1"))
	w.SetGasPrice(big.NewInt(20_000_000_000))

	quote, err := s.Quote(t.Context())
	require.NoError(t, err)

	assert.Equal(t, test.FakeWalletAddress, quote.Address)
	assert.True(t, decimal.NewFromInt(1).Equal(quote.Balance))
	assert.True(t, decimal.NewFromInt(3500).Equal(quote.BalanceUSD))
	assert.True(t, decimal.RequireFromString("0.00084").Equal(quote.GasEstimate))
	assert.True(t, decimal.RequireFromString("0.99866").Equal(quote.MaxWithdrawable))
}

func TestParseDestination(t *testing.T) {
	addr, err := relay.ParseDestination(destination)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(destination), addr)

	_, err = relay.ParseDestination("nope")
	require.ErrorIs(t, err, relay.ErrInvalidDestination)

	_, err = relay.ParseDestination("")
	require.ErrorIs(t, err, relay.ErrMissingDestination)
}
