package relay_test

import (
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/test"
)

const (
	addrToAddress = "0x00000000000000000000000000000000000000a2"
	addrTreasury  = "0x00000000000000000000000000000000000000a3"
)

func TestPostWithdrawUsesToAddress(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, w *test.FakeWallet) {
		res := test.PerformRequest(t, s, http.MethodPost, "/withdraw", test.GenericPayload{
			"toAddress": addrToAddress,
			"treasury":  addrTreasury,
			"amount":    0.1,
		}, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		subs := w.Submissions()
		require.Len(t, subs, 1)
		assert.Equal(t, common.HexToAddress(addrToAddress), subs[0].To)
		assert.Equal(t, 0, eth("0.1").Cmp(subs[0].Value))
	})
}

func TestPostSendETHUsesAmountAndTreasury(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, w *test.FakeWallet) {
		res := test.PerformRequest(t, s, http.MethodPost, "/send-eth", test.GenericPayload{
			"toAddress": addrToAddress,
			"treasury":  addrTreasury,
			"amount":    0.2,
			"amountETH": 0.7,
		}, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body.String())

		subs := w.Submissions()
		require.Len(t, subs, 1)
		assert.Equal(t, common.HexToAddress(addrTreasury), subs[0].To)
		assert.Equal(t, 0, eth("0.2").Cmp(subs[0].Value))
	})
}

func TestPostSendETHWithoutAmountIsInvalid(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server, w *test.FakeWallet) {
		// amountETH is overwritten by the (absent) amount on this route
		res := test.PerformRequest(t, s, http.MethodPost, "/send-eth", test.GenericPayload{
			"to":        destination,
			"amountETH": 0.7,
		}, nil)
		require.Equal(t, http.StatusBadRequest, res.Code, res.Body.String())
		assert.Empty(t, w.Submissions())
	})
}

func TestCoinbaseAliasesBehaveLikeConvert(t *testing.T) {
	for _, path := range []string{"/coinbase-withdraw", "/send-to-coinbase", "/backend-to-coinbase", "/treasury-to-coinbase"} {
		t.Run(path, func(t *testing.T) {
			test.WithTestServer(t, func(s *api.Server, w *test.FakeWallet) {
				res := test.PerformRequest(t, s, http.MethodPost, path, test.GenericPayload{
					"toAddress": addrToAddress,
					"treasury":  addrTreasury,
					"amountUSD": 300,
				}, nil)
				require.Equal(t, http.StatusOK, res.Code, res.Body.String())

				subs := w.Submissions()
				require.Len(t, subs, 1)
				assert.Equal(t, common.HexToAddress(addrToAddress), subs[0].To)
				assert.Equal(t, 0, eth("0.1").Cmp(subs[0].Value))
			})
		})
	}
}
