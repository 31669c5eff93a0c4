package wallet_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/wallet"
)

type simChain struct {
	backend *simulated.Backend
	account *wallet.Account
	address common.Address
}

// newSimChain starts a simulated chain with a funded backend wallet and mines a block every
// few milliseconds until the test ends.
func newSimChain(t *testing.T, funds *big.Int) *simChain {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	backend := simulated.NewBackend(types.GenesisAlloc{
		address: {Balance: funds},
	})

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	t.Cleanup(func() {
		cancel()
		wg.Wait()
		_ = backend.Close()
	})

	client, err := wallet.NewRPCClientWithBackends(backend.Client())
	require.NoError(t, err)

	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)

	signer := wallet.NewSignerFromKey(key, chainID)
	account := wallet.NewAccount(client, signer, 10*time.Second, 10*time.Millisecond)

	return &simChain{
		backend: backend,
		account: account,
		address: address,
	}
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(params.Ether))
}

func TestAccountBalanceAndGasPrice(t *testing.T) {
	chain := newSimChain(t, ether(10))
	ctx := t.Context()

	balance, err := chain.account.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ether(10).Cmp(balance))

	gasPrice, err := chain.account.GasPrice(ctx)
	require.NoError(t, err)
	assert.Positive(t, gasPrice.Sign())

	assert.Equal(t, chain.address, chain.account.Address())
	require.NoError(t, chain.account.Ping(ctx))
}

func TestAccountSubmitTransfer(t *testing.T) {
	chain := newSimChain(t, ether(10))
	ctx := t.Context()

	recipient := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	value := ether(1)

	gasPrice, err := chain.account.GasPrice(ctx)
	require.NoError(t, err)

	conf, err := chain.account.SubmitTransfer(ctx, recipient, value, relay.NewFeePolicy(gasPrice))
	require.NoError(t, err)

	assert.NotEqual(t, common.Hash{}, conf.TxHash)
	assert.Equal(t, relay.NativeTransferGas, conf.GasUsed)
	assert.Positive(t, conf.BlockNumber)
	require.NotNil(t, conf.EffectiveGasPrice)

	received, err := chain.backend.Client().BalanceAt(ctx, recipient, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, value.Cmp(received))

	remaining, err := chain.account.Balance(ctx)
	require.NoError(t, err)

	paid := new(big.Int).Mul(new(big.Int).SetUint64(conf.GasUsed), conf.EffectiveGasPrice)
	expected := new(big.Int).Sub(ether(10), value)
	expected.Sub(expected, paid)
	assert.Equal(t, 0, expected.Cmp(remaining), "expected %s, got %s", expected, remaining)
}

func TestAccountConcurrentSubmissionsGetDistinctNonces(t *testing.T) {
	chain := newSimChain(t, ether(10))
	ctx := t.Context()

	gasPrice, err := chain.account.GasPrice(ctx)
	require.NoError(t, err)
	fee := relay.NewFeePolicy(gasPrice)

	const transfers = 4
	hashes := make([]common.Hash, transfers)
	errs := make([]error, transfers)

	var wg sync.WaitGroup
	for i := range transfers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := common.BigToAddress(big.NewInt(int64(0x100 + i)))
			conf, err := chain.account.SubmitTransfer(ctx, to, big.NewInt(params.GWei), fee)
			errs[i] = err
			if err == nil {
				hashes[i] = conf.TxHash
			}
		}(i)
	}
	wg.Wait()

	nonces := make(map[uint64]bool, transfers)
	for i := range transfers {
		require.NoError(t, errs[i])

		tx, pending, err := chain.backend.Client().TransactionByHash(ctx, hashes[i])
		require.NoError(t, err)
		assert.False(t, pending)
		nonces[tx.Nonce()] = true
	}

	for nonce := range uint64(transfers) {
		assert.True(t, nonces[nonce], "nonce %d was not used", nonce)
	}
}

func TestAccountSubmitTransferInsufficientFunds(t *testing.T) {
	chain := newSimChain(t, big.NewInt(params.GWei))
	ctx := t.Context()

	gasPrice, err := chain.account.GasPrice(ctx)
	require.NoError(t, err)

	_, err = chain.account.SubmitTransfer(ctx, common.HexToAddress("0x00000000000000000000000000000000000000bb"), ether(1), relay.NewFeePolicy(gasPrice))
	require.Error(t, err)

	var extErr *relay.ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, wallet.CodeInsufficientFunds, extErr.Code)
	assert.Empty(t, extErr.TxHash)
}

func TestAccountWaitTimesOutWithTxHash(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(key.PublicKey)

	// no block is ever committed, the receipt never shows up
	backend := simulated.NewBackend(types.GenesisAlloc{address: {Balance: ether(1)}})
	t.Cleanup(func() { _ = backend.Close() })

	client, err := wallet.NewRPCClientWithBackends(backend.Client())
	require.NoError(t, err)
	chainID, err := client.ChainID(t.Context())
	require.NoError(t, err)

	account := wallet.NewAccount(client, wallet.NewSignerFromKey(key, chainID), 100*time.Millisecond, 10*time.Millisecond)

	gasPrice, err := account.GasPrice(t.Context())
	require.NoError(t, err)

	_, err = account.SubmitTransfer(t.Context(), common.HexToAddress("0x00000000000000000000000000000000000000cc"), big.NewInt(1), relay.NewFeePolicy(gasPrice))
	require.Error(t, err)

	var extErr *relay.ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, wallet.CodeTimeout, extErr.Code)
	assert.NotEmpty(t, extErr.TxHash)
}

func TestInspectTransfer(t *testing.T) {
	chain := newSimChain(t, ether(10))
	ctx := t.Context()

	gasPrice, err := chain.account.GasPrice(ctx)
	require.NoError(t, err)

	recipient := common.HexToAddress("0x00000000000000000000000000000000000000dd")
	conf, err := chain.account.SubmitTransfer(ctx, recipient, ether(2), relay.NewFeePolicy(gasPrice))
	require.NoError(t, err)

	client, err := wallet.NewRPCClientWithBackends(chain.backend.Client())
	require.NoError(t, err)

	report, err := wallet.InspectTransfer(ctx, client, conf.TxHash)
	require.NoError(t, err)

	assert.False(t, report.Pending)
	assert.True(t, report.Succeeded)
	assert.Equal(t, chain.address, report.From)
	require.NotNil(t, report.To)
	assert.Equal(t, recipient, *report.To)
	assert.Equal(t, 0, ether(2).Cmp(report.ValueWei))
	assert.Equal(t, conf.BlockNumber, report.BlockNumber)
	assert.Equal(t, 0, new(big.Int).Mul(new(big.Int).SetUint64(conf.GasUsed), conf.EffectiveGasPrice).Cmp(report.GasPaidWei()))

	_, err = wallet.InspectTransfer(ctx, client, common.HexToHash("0x01"))
	require.ErrorIs(t, err, ethereum.NotFound)
}
