package common_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/api/handlers/common"
	"github/chapool/eth-relay/internal/test"
)

func TestGetReadyReadiness(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.FakeWallet) {
		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Ready.", res.Body.String())
	})
}

func TestGetReadyReadinessBroken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, _ *test.FakeWallet) {
		// forcefully remove an initialized component to check if ready state works
		relayService := s.Relay
		s.Relay = nil

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, common.StatusNotReady, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())

		s.Relay = relayService
	})
}

func TestGetReadyNodeDownNotReady(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, w *test.FakeWallet) {
		w.PingErr = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

		res := test.PerformRequest(t, s, "GET", "/-/ready", nil, nil)
		require.Equal(t, common.StatusNotReady, res.Result().StatusCode)
		require.Equal(t, "Not ready.", res.Body.String())
	})
}
