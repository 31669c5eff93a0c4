package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/test"
	"github/chapool/eth-relay/internal/util/command"
)

func TestWithServerFromInit(t *testing.T) {
	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := test.DefaultTestConfig()
	cfg.Logger.PrettyPrintConsole = false

	wallet := test.NewFakeWallet()
	cleanedUp := false
	resultErr := command.WithServerFromInit(ctx, cfg, func(cfg config.Server) (*api.Server, func(), error) {
		s, err := api.InitNewServerWithWallet(cfg, wallet, t)
		return s, func() { cleanedUp = true }, err
	}, func(ctx context.Context, s *api.Server) error {
		assert.False(t, cleanedUp)

		quote, err := s.Relay.Quote(ctx)
		require.NoError(t, err)
		assert.Equal(t, test.FakeWalletAddress, quote.Address)

		return testError
	})

	assert.Equal(t, testError, resultErr)
	assert.True(t, cleanedUp)
}

func TestWithServerFromInitFails(t *testing.T) {
	initErr := errors.New("no node")

	called := false
	err := command.WithServerFromInit(t.Context(), test.DefaultTestConfig(), func(config.Server) (*api.Server, func(), error) {
		return nil, nil, initErr
	}, func(context.Context, *api.Server) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, initErr)
	assert.False(t, called)
}

func TestNewSubcommandGroup(t *testing.T) {
	group := command.NewSubcommandGroup("probe")
	assert.Equal(t, "probe", group.Use)
	assert.False(t, group.HasSubCommands())
}
