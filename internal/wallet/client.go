package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Backend is the subset of the node API the relay wallet needs.
// *ethclient.Client and the go-ethereum simulated backend client both satisfy it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type dialFunc func(url string) (Backend, error)

func dialEthclient(url string) (Backend, error) {
	client, err := ethclient.Dial(url)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// RPCClient wraps one or more node connections and fails over between them.
type RPCClient struct {
	urls     []string
	backends []Backend
	dial     dialFunc
	mu       sync.Mutex
	current  int
	closed   bool
}

var ErrClientClosed = errors.New("RPC client is closed")

// NewRPCClient dials every url. Unreachable urls are retried lazily on use, at least one
// dial has to succeed.
func NewRPCClient(urls []string) (*RPCClient, error) {
	return newRPCClient(urls, dialEthclient)
}

// NewRPCClientWithBackends wraps already connected backends, e.g. a simulated chain.
func NewRPCClientWithBackends(backends ...Backend) (*RPCClient, error) {
	if len(backends) == 0 {
		return nil, errors.New("at least one backend is required")
	}

	urls := make([]string, len(backends))
	for i := range backends {
		urls[i] = "backend"
	}

	return &RPCClient{
		urls:     urls,
		backends: backends,
		dial: func(string) (Backend, error) {
			return nil, errors.New("backend cannot be redialed")
		},
	}, nil
}

func newRPCClient(urls []string, dial dialFunc) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	backends := make([]Backend, 0, len(urls))
	connected := 0
	for _, url := range urls {
		backend, err := dial(url)
		if err != nil {
			log.Warn().
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, will retry on use")
			backends = append(backends, nil)
			continue
		}
		backends = append(backends, backend)
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:     urls,
		backends: backends,
		dial:     dial,
	}, nil
}

// Close closes every backend that can be closed. Later calls fail with ErrClientClosed.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for _, backend := range c.backends {
		if closer, ok := backend.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	return chainID, nil
}

func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	balance, err := backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	return balance, nil
}

func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	gasPrice, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas price")
	}

	return gasPrice, nil
}

func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return 0, err
	}

	nonce, err := backend.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return err
	}

	if err := backend.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}

	return nil
}

func (c *RPCClient) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, false, err
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx, isPending, err := backend.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get transaction")
	}

	return tx, isPending, nil
}

// TransactionReceipt returns ethereum.NotFound (wrapped) while the transaction is pending.
func (c *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	backend, err := c.getBackend(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction receipt")
	}

	return receipt, nil
}

// getBackend returns the first healthy backend starting at the current one.
// A backend is healthy if it answers eth_chainId, dead ones are redialed.
// c.mu is not held during network calls.
func (c *RPCClient) getBackend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClientClosed
	}
	start := c.current
	count := len(c.backends)
	c.mu.Unlock()

	var lastErr error
	for i := range count {
		idx := (start + i) % count

		backend, err := c.backendAt(idx)
		if err != nil {
			lastErr = err
			continue
		}

		if _, err := backend.ChainID(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "context done while selecting RPC node")
			}

			log.Warn().
				Str("url", c.urls[idx]).
				Err(err).
				Msg("RPC node health check failed, trying next")
			lastErr = err
			continue
		}

		c.mu.Lock()
		if idx != c.current {
			log.Info().Str("url", c.urls[idx]).Msg("Switched RPC node")
			c.current = idx
		}
		c.mu.Unlock()

		return backend, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no RPC node configured")
	}

	return nil, errors.Wrap(lastErr, "all RPC nodes are unavailable")
}

// backendAt returns the connection at idx, dialing it if it is not connected yet.
func (c *RPCClient) backendAt(idx int) (Backend, error) {
	c.mu.Lock()
	backend := c.backends[idx]
	c.mu.Unlock()

	if backend != nil {
		return backend, nil
	}

	backend, err := c.dial(c.urls[idx])
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// a concurrent call dialed the same node first, or the client was closed meanwhile
	if existing := c.backends[idx]; existing != nil || c.closed {
		if closer, ok := backend.(interface{ Close() }); ok {
			closer.Close()
		}
		if c.closed {
			return nil, ErrClientClosed
		}
		return existing, nil
	}

	c.backends[idx] = backend

	return backend, nil
}
