package relay

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// NativeTransferGas is the gas a plain value transfer consumes.
	NativeTransferGas uint64 = 21000

	gasEstimateMultiplier = 2
	feeCapMultiplier      = 2
	weiDecimals           = 18
)

var (
	// GasReserve is withheld from the balance before a percentage is applied.
	GasReserve = decimal.RequireFromString("0.003")
	// WithdrawSafetyMargin is subtracted on top of the gas estimate when suggesting a maximum.
	WithdrawSafetyMargin = decimal.RequireFromString("0.0005")
	// PriorityFee is the tip offered to the block producer, 2 gwei.
	PriorityFee = big.NewInt(2_000_000_000)

	hundred = decimal.NewFromInt(100)
)

func weiToETH(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -weiDecimals)
}

// ethToWei truncates anything below one wei.
func ethToWei(eth decimal.Decimal) *big.Int {
	return eth.Shift(weiDecimals).BigInt()
}

// estimateGasCost is gasPrice * one value transfer * safety multiplier, in wei.
func estimateGasCost(gasPriceWei *big.Int) *big.Int {
	cost := new(big.Int).Mul(gasPriceWei, new(big.Int).SetUint64(NativeTransferGas))
	return cost.Mul(cost, big.NewInt(gasEstimateMultiplier))
}

// maxWithdrawable is balance - gas estimate - safety margin, floored at zero.
func maxWithdrawable(balance decimal.Decimal, gasEstimate decimal.Decimal) decimal.Decimal {
	return decimal.Max(balance.Sub(gasEstimate).Sub(WithdrawSafetyMargin), decimal.Zero)
}

// NewFeePolicy caps the fee at twice the current gas price. The tip never exceeds the cap,
// nodes reject transactions with maxPriorityFeePerGas > maxFeePerGas.
func NewFeePolicy(gasPriceWei *big.Int) FeePolicy {
	feeCap := new(big.Int).Mul(gasPriceWei, big.NewInt(feeCapMultiplier))

	tip := new(big.Int).Set(PriorityFee)
	if tip.Cmp(feeCap) > 0 {
		tip.Set(feeCap)
	}

	return FeePolicy{
		MaxFeePerGas:         feeCap,
		MaxPriorityFeePerGas: tip,
		GasLimit:             NativeTransferGas,
	}
}

// gasPaid is what the receipt says the transfer actually cost, in ETH.
func gasPaid(conf *Confirmation) decimal.Decimal {
	if conf.EffectiveGasPrice == nil {
		return decimal.Zero
	}

	paid := new(big.Int).Mul(new(big.Int).SetUint64(conf.GasUsed), conf.EffectiveGasPrice)
	return weiToETH(paid)
}
