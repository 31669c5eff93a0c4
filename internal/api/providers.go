package api

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/wallet"
)

const chainIDLookupTimeout = 10 * time.Second

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewClock returns a mocked clock when running tests, the real clock otherwise.
func NewClock(t ...*testing.T) time2.Clock {
	if len(t) > 0 && t[0] != nil {
		return time2.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	}

	return time2.DefaultClock
}

// NoTest is used by the production injector in place of a *testing.T.
func NoTest() []*testing.T {
	return nil
}

// NewRPCClient dials the configured nodes. The cleanup closes every node connection.
func NewRPCClient(cfg config.Server) (*wallet.RPCClient, func(), error) {
	client, err := wallet.NewRPCClient(cfg.Chain.RPCURLs)
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}

// NewAccount loads the backend wallet. The chain ID is asked from the node unless configured.
func NewAccount(cfg config.Server, client *wallet.RPCClient) (*wallet.Account, error) {
	keys := KeySource(cfg)
	if keys.Empty() {
		return nil, errors.New("WALLET_PRIVATE_KEY is not set")
	}

	chainID := big.NewInt(cfg.Chain.ChainID)
	if cfg.Chain.ChainID == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), chainIDLookupTimeout)
		defer cancel()

		var err error
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up chain ID")
		}
	}

	signer, err := keys.Load(chainID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("address", signer.Address().Hex()).
		Str("chain_id", chainID.String()).
		Msg("Backend wallet loaded")

	return wallet.NewAccount(client, signer, cfg.Chain.ReceiptTimeout, cfg.Chain.ReceiptPollInterval), nil
}

// KeySource selects the configured backend wallet key.
func KeySource(cfg config.Server) wallet.KeySource {
	return wallet.KeySource{
		HexKey:           cfg.Chain.PrivateKey,
		KeystoreFile:     cfg.Chain.KeystoreFile,
		KeystorePassword: cfg.Chain.KeystorePassword,
	}
}

// NewRelayConfig parses the business configuration of the relay.
func NewRelayConfig(cfg config.Server) (relay.Config, error) {
	price, err := decimal.NewFromString(cfg.Relay.PriceReference)
	if err != nil {
		return relay.Config{}, errors.Wrapf(err, "ETH_PRICE %q is not a number", cfg.Relay.PriceReference)
	}
	if price.IsNegative() {
		return relay.Config{}, errors.Errorf("ETH_PRICE %q must not be negative", cfg.Relay.PriceReference)
	}
	if price.IsZero() {
		log.Warn().Msg("ETH_PRICE is not set, amountUSD requests will be rejected and USD values reported as 0")
	}

	if cfg.Relay.DefaultDestination != "" {
		if _, err := relay.ParseDestination(cfg.Relay.DefaultDestination); err != nil {
			return relay.Config{}, errors.Wrapf(err, "BACKEND_WALLET %q", cfg.Relay.DefaultDestination)
		}
	}

	return relay.Config{
		DefaultDestination: cfg.Relay.DefaultDestination,
		PriceReference:     price,
	}, nil
}

// NewRedis connects the idempotency store. It returns nil, disabling the guard, if no
// address is configured.
func NewRedis(cfg config.Server) *redis.Client {
	if cfg.Idempotency.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Idempotency.RedisAddr,
		Password: cfg.Idempotency.RedisPassword,
		DB:       cfg.Idempotency.RedisDB,
	})
}
