package relay

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Request is the canonical transfer request every route is normalized to.
// Amount fields hold decimal text, an empty string means the field was not sent.
type Request struct {
	To        string
	ToAddress string
	Treasury  string

	AmountETH  string
	Amount     string
	AmountUSD  string
	Percentage string
}

// Config is the static business configuration injected into the Service.
type Config struct {
	// DefaultDestination is used when a request names no destination at all.
	DefaultDestination string
	// PriceReference is the USD price of one ETH. Display and fiat conversion only.
	PriceReference decimal.Decimal
}

// Wallet is the external wallet/node capability the relay delegates to.
// Implementations own signing, nonce handling and waiting for the confirmation.
type Wallet interface {
	Address() common.Address
	Balance(ctx context.Context) (*big.Int, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	SubmitTransfer(ctx context.Context, to common.Address, valueWei *big.Int, fee FeePolicy) (*Confirmation, error)
}

// FeePolicy bounds what a submitted transfer may pay, all values in wei.
type FeePolicy struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	GasLimit             uint64
}

// Confirmation is what the wallet reports once the transfer is included in a block.
type Confirmation struct {
	TxHash            common.Hash
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	BlockNumber       uint64
}

// Outcome is the result of a confirmed transfer. Amounts are in ETH.
type Outcome struct {
	TxHash         string
	Amount         decimal.Decimal
	AmountUSD      decimal.Decimal
	PriceReference decimal.Decimal
	To             common.Address
	GasUsed        decimal.Decimal
	BlockNumber    uint64
}

// Quote describes what the backend wallet could currently send. Amounts are in ETH.
type Quote struct {
	Address         common.Address
	Balance         decimal.Decimal
	BalanceUSD      decimal.Decimal
	GasEstimate     decimal.Decimal
	MaxWithdrawable decimal.Decimal
	PriceReference  decimal.Decimal
}
