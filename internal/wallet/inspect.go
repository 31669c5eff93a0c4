package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// TransferReport describes a submitted transaction as the node currently sees it.
// Receipt fields are zero while Pending is true.
type TransferReport struct {
	TxHash            common.Hash
	From              common.Address
	To                *common.Address
	ValueWei          *big.Int
	Nonce             uint64
	Pending           bool
	Succeeded         bool
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// GasPaidWei is gasUsed * effectiveGasPrice, nil while pending.
func (r *TransferReport) GasPaidWei() *big.Int {
	if r.EffectiveGasPrice == nil {
		return nil
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(r.GasUsed), r.EffectiveGasPrice)
}

// InspectTransfer looks up a transaction and, once mined, its receipt.
func InspectTransfer(ctx context.Context, client *RPCClient, txHash common.Hash) (*TransferReport, error) {
	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx, isPending, err := client.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, err
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to recover sender")
	}

	report := &TransferReport{
		TxHash:   txHash,
		From:     from,
		To:       tx.To(),
		ValueWei: tx.Value(),
		Nonce:    tx.Nonce(),
		Pending:  isPending,
	}

	if isPending {
		return report, nil
	}

	receipt, err := client.TransactionReceipt(ctx, txHash)
	if errors.Is(err, ethereum.NotFound) {
		report.Pending = true
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.Succeeded = receipt.Status == types.ReceiptStatusSuccessful
	report.BlockNumber = receipt.BlockNumber.Uint64()
	report.GasUsed = receipt.GasUsed
	report.EffectiveGasPrice = receipt.EffectiveGasPrice

	return report, nil
}
