package wallet

import (
	"context"
	"net"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/eth-relay/internal/relay"
)

// Machine readable failure codes reported next to the error message.
const (
	CodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	CodeNonceExpired           = "NONCE_EXPIRED"
	CodeReplacementUnderpriced = "REPLACEMENT_UNDERPRICED"
	CodeFeeTooLow              = "FEE_TOO_LOW"
	CodeCallException          = "CALL_EXCEPTION"
	CodeTimeout                = "TIMEOUT"
	CodeCancelled              = "CANCELLED"
	CodeNetworkError           = "NETWORK_ERROR"
	CodeServerError            = "SERVER_ERROR"
	CodeUnknown                = "UNKNOWN_ERROR"
)

var nodeMessageCodes = []struct {
	fragment string
	code     string
}{
	{"insufficient funds", CodeInsufficientFunds},
	{"nonce too low", CodeNonceExpired},
	{"replacement transaction underpriced", CodeReplacementUnderpriced},
	{"already known", CodeReplacementUnderpriced},
	{"max fee per gas less than block base fee", CodeFeeTooLow},
	{"fee cap less than block base fee", CodeFeeTooLow},
	{"transaction underpriced", CodeFeeTooLow},
}

// ErrorCode classifies a node or transport failure.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CodeCancelled
	}

	msg := strings.ToLower(err.Error())
	for _, m := range nodeMessageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return CodeServerError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetworkError
	}

	return CodeUnknown
}

func externalError(op string, txHash string, err error) *relay.ExternalError {
	return &relay.ExternalError{
		Op:     op,
		Code:   ErrorCode(err),
		TxHash: txHash,
		Err:    err,
	}
}
