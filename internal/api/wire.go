//go:build wireinject

package api

import (
	"testing"

	"github.com/google/wire"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/metrics"
	"github/chapool/eth-relay/internal/relay"
	"github/chapool/eth-relay/internal/wallet"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewClock,
	NewRedis,
	NewRelayConfig,
	metrics.New,
	relay.NewService,
)

var walletSet = wire.NewSet(
	NewRPCClient,
	NewAccount,
	wire.Bind(new(relay.Wallet), new(*wallet.Account)),
)

// InitNewServer returns a new Server instance backed by the configured chain wallet.
// The returned cleanup closes the node connections, call it after Shutdown.
func InitNewServer(
	_ config.Server,
) (*Server, func(), error) {
	wire.Build(serviceSet, walletSet, NoTest)
	return new(Server), nil, nil
}

// InitNewServerWithWallet returns a new Server instance using the given wallet.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithWallet(
	_ config.Server,
	_ relay.Wallet,
	t ...*testing.T,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
