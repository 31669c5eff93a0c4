package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github/chapool/eth-relay/internal/relay"
)

var (
	// FakeWalletAddress is the address every FakeWallet reports.
	FakeWalletAddress = common.HexToAddress("0x000000000000000000000000000000000000f00d")
	// FakeGasPrice is the default gas price of a FakeWallet, 1 gwei.
	FakeGasPrice = big.NewInt(1_000_000_000)
)

// Submission is a transfer a FakeWallet accepted.
type Submission struct {
	To    common.Address
	Value *big.Int
	Fee   relay.FeePolicy
}

// FakeWallet is an in-memory relay.Wallet. Confirmed transfers are deducted from its balance
// together with the gas they paid at the gas price.
type FakeWallet struct {
	mu sync.Mutex

	balance     *big.Int
	gasPrice    *big.Int
	blockNumber uint64
	submissions []Submission

	BalanceErr  error
	GasPriceErr error
	PingErr     error
	// SubmitErr is returned by SubmitTransfer instead of confirming the transfer.
	SubmitErr error
	// OnSubmit is called before a transfer is confirmed, it may block.
	OnSubmit func(ctx context.Context)
}

// NewFakeWallet returns a wallet holding 1 ETH at a gas price of 1 gwei.
func NewFakeWallet() *FakeWallet {
	return &FakeWallet{
		balance:     new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil),
		gasPrice:    new(big.Int).Set(FakeGasPrice),
		blockNumber: 100,
	}
}

func (w *FakeWallet) SetBalance(wei *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = new(big.Int).Set(wei)
}

func (w *FakeWallet) SetGasPrice(wei *big.Int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gasPrice = new(big.Int).Set(wei)
}

// Submissions returns a copy of the accepted transfers in submission order.
func (w *FakeWallet) Submissions() []Submission {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Submission(nil), w.submissions...)
}

func (w *FakeWallet) Address() common.Address {
	return FakeWalletAddress
}

func (w *FakeWallet) Balance(_ context.Context) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.BalanceErr != nil {
		return nil, w.BalanceErr
	}
	return new(big.Int).Set(w.balance), nil
}

func (w *FakeWallet) GasPrice(_ context.Context) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.GasPriceErr != nil {
		return nil, w.GasPriceErr
	}
	return new(big.Int).Set(w.gasPrice), nil
}

func (w *FakeWallet) SubmitTransfer(ctx context.Context, to common.Address, valueWei *big.Int, fee relay.FeePolicy) (*relay.Confirmation, error) {
	if w.OnSubmit != nil {
		w.OnSubmit(ctx)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.SubmitErr != nil {
		return nil, w.SubmitErr
	}

	w.submissions = append(w.submissions, Submission{
		To:    to,
		Value: new(big.Int).Set(valueWei),
		Fee:   fee,
	})
	w.blockNumber++

	paid := new(big.Int).Mul(new(big.Int).SetUint64(fee.GasLimit), w.gasPrice)
	w.balance.Sub(w.balance, valueWei)
	w.balance.Sub(w.balance, paid)

	return &relay.Confirmation{
		TxHash:            crypto.Keccak256Hash(to.Bytes(), valueWei.Bytes(), new(big.Int).SetUint64(w.blockNumber).Bytes()),
		GasUsed:           fee.GasLimit,
		EffectiveGasPrice: new(big.Int).Set(w.gasPrice),
		BlockNumber:       w.blockNumber,
	}, nil
}

func (w *FakeWallet) Ping(_ context.Context) error {
	return w.PingErr
}
