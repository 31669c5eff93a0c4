package wallet

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/eth-relay/internal/relay"
)

const (
	DefaultReceiptTimeout      = 2 * time.Minute
	DefaultReceiptPollInterval = 3 * time.Second
)

// Account is the backend wallet. It implements relay.Wallet.
//
// Submissions are serialized from nonce selection up to the broadcast, concurrent transfers
// therefore get consecutive nonces. Waiting for the receipt happens outside the lock.
type Account struct {
	client         *RPCClient
	signer         *Signer
	receiptTimeout time.Duration
	pollInterval   time.Duration

	submitMu  sync.Mutex
	nextNonce *uint64
}

var _ relay.Wallet = (*Account)(nil)

func NewAccount(client *RPCClient, signer *Signer, receiptTimeout time.Duration, pollInterval time.Duration) *Account {
	if receiptTimeout <= 0 {
		receiptTimeout = DefaultReceiptTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultReceiptPollInterval
	}

	return &Account{
		client:         client,
		signer:         signer,
		receiptTimeout: receiptTimeout,
		pollInterval:   pollInterval,
	}
}

func (a *Account) Address() common.Address {
	return a.signer.Address()
}

func (a *Account) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := a.client.BalanceAt(ctx, a.signer.Address())
	if err != nil {
		return nil, externalError("get balance", "", err)
	}

	return balance, nil
}

func (a *Account) GasPrice(ctx context.Context) (*big.Int, error) {
	gasPrice, err := a.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, externalError("get gas price", "", err)
	}

	return gasPrice, nil
}

// Ping checks the node answers and serves the chain the signer signs for.
func (a *Account) Ping(ctx context.Context) error {
	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return err
	}

	if chainID.Cmp(a.signer.ChainID()) != 0 {
		return errors.Errorf("node serves chain %s, wallet signs for chain %s", chainID, a.signer.ChainID())
	}

	return nil
}

// SubmitTransfer signs and broadcasts a value transfer, then blocks until the receipt is
// available, the receipt timeout passes or ctx is done. A returned error that carries a
// TxHash means the transfer was broadcast.
func (a *Account) SubmitTransfer(ctx context.Context, to common.Address, valueWei *big.Int, fee relay.FeePolicy) (*relay.Confirmation, error) {
	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx, err := a.broadcast(ctx, to, valueWei, fee)
	if err != nil {
		return nil, externalError("broadcast transaction", "", err)
	}

	txHash := tx.Hash()
	log.Info().
		Str("tx_hash", txHash.Hex()).
		Str("to", to.Hex()).
		Str("value_wei", valueWei.String()).
		Uint64("nonce", tx.Nonce()).
		Msg("Transaction broadcast, waiting for confirmation")

	receipt, err := a.waitForReceipt(ctx, txHash)
	if err != nil {
		a.forgetNonce(tx.Nonce())
		return nil, externalError("wait for confirmation", txHash.Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &relay.ExternalError{
			Op:     "wait for confirmation",
			Code:   CodeCallException,
			TxHash: txHash.Hex(),
			Err:    errors.Errorf("transaction %s failed in block %s", txHash.Hex(), receipt.BlockNumber),
		}
	}

	return &relay.Confirmation{
		TxHash:            txHash,
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
		BlockNumber:       receipt.BlockNumber.Uint64(),
	}, nil
}

func (a *Account) broadcast(ctx context.Context, to common.Address, valueWei *big.Int, fee relay.FeePolicy) (*types.Transaction, error) {
	a.submitMu.Lock()
	defer a.submitMu.Unlock()

	nonce, err := a.reserveNonce(ctx)
	if err != nil {
		return nil, err
	}

	signedTx, err := a.signer.SignTransfer(nonce, to, valueWei, fee)
	if err != nil {
		return nil, err
	}

	if err := a.client.SendTransaction(ctx, signedTx); err != nil {
		// the node's view of the nonce is authoritative again after a failed send
		a.nextNonce = nil
		return nil, err
	}

	next := nonce + 1
	a.nextNonce = &next

	return signedTx, nil
}

// reserveNonce must be called with submitMu held. It never hands out a nonce lower than the
// one following our last broadcast, even if the node we fail over to lags behind.
func (a *Account) reserveNonce(ctx context.Context) (uint64, error) {
	pending, err := a.client.PendingNonceAt(ctx, a.signer.Address())
	if err != nil {
		return 0, err
	}

	if a.nextNonce != nil && *a.nextNonce > pending {
		return *a.nextNonce, nil
	}

	return pending, nil
}

// forgetNonce drops the cached nonce if it was derived from an unconfirmed transaction with
// nonce. The node may have dropped that transaction, its pending nonce is authoritative again.
func (a *Account) forgetNonce(nonce uint64) {
	a.submitMu.Lock()
	defer a.submitMu.Unlock()

	if a.nextNonce != nil && *a.nextNonce > nonce {
		log.Warn().
			Uint64("nonce", nonce).
			Uint64("cached_next_nonce", *a.nextNonce).
			Msg("Transaction not confirmed, resetting nonce to the node's pending nonce")
		a.nextNonce = nil
	}
}

func (a *Account) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	localCtx, cancel := context.WithTimeout(ctx, a.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := a.client.TransactionReceipt(localCtx, txHash)
		if err == nil {
			return receipt, nil
		}

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-localCtx.Done():
			return nil, errors.Wrap(localCtx.Err(), "context done while waiting for receipt")
		case <-ticker.C:
			continue
		}
	}
}
