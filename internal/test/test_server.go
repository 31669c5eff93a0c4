package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/router"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/relay"
)

const (
	// TestETHPrice is the ETH price the test server is configured with.
	TestETHPrice = "3000"
	// TestBackendWallet is the default destination of the test server.
	TestBackendWallet = "0x00000000000000000000000000000000000000b0"
)

// DefaultTestConfig returns the env based config with deterministic relay settings and the
// idempotency guard disabled.
func DefaultTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Relay.PriceReference = TestETHPrice
	cfg.Relay.DefaultDestination = TestBackendWallet
	cfg.Idempotency.RedisAddr = ""

	return cfg
}

// WithTestServer executes closure with a server backed by a fresh FakeWallet.
func WithTestServer(t *testing.T, closure func(s *api.Server, w *FakeWallet)) {
	t.Helper()

	WithTestServerConfigurable(t, DefaultTestConfig(), closure)
}

// WithTestServerConfigurable executes closure with a server using cfg and a fresh FakeWallet.
func WithTestServerConfigurable(t *testing.T, cfg config.Server, closure func(s *api.Server, w *FakeWallet)) {
	t.Helper()

	w := NewFakeWallet()
	WithTestServerWallet(t, cfg, w, func(s *api.Server) {
		t.Helper()
		closure(s, w)
	})
}

// WithTestServerWallet executes closure with a server using cfg and the given wallet.
func WithTestServerWallet(t *testing.T, cfg config.Server, wallet relay.Wallet, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, cfg, wallet)

	closure(s)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	errs := s.Shutdown(ctx)
	require.Empty(t, errs, "Failed to shutdown test server")
}

// NewTestServer wires a server around wallet and initializes its router.
func NewTestServer(t *testing.T, cfg config.Server, wallet relay.Wallet) *api.Server {
	t.Helper()

	s, err := api.InitNewServerWithWallet(cfg, wallet, t)
	require.NoError(t, err, "Failed to init test server")

	router.Init(s)

	return s
}
