package tx

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/util/command"
	"github/chapool/eth-relay/internal/wallet"
)

const (
	rpcFlag     = "rpc"
	timeoutFlag = "timeout"
)

func newCheck() *cobra.Command {
	var (
		rpcURL  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check <tx-hash>",
		Short: "Prints the status of a submitted transfer",
		Long: `Prints the status of a submitted transfer

Use it to follow up on a 500 response that carried a txHash: the transfer was broadcast,
this shows whether it has been mined since and what it paid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			command.SetupLogger(cfg.Logger)

			urls := cfg.Chain.RPCURLs
			if rpcURL != "" {
				urls = []string{rpcURL}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runCheck(ctx, cmd.OutOrStdout(), urls, args[0])
		},
	}

	cmd.Flags().StringVar(&rpcURL, rpcFlag, "", "RPC URL, defaults to ETH_RPC_URL")
	cmd.Flags().DurationVar(&timeout, timeoutFlag, 30*time.Second, "Timeout for all node requests")

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, urls []string, rawHash string) error {
	hashBytes, err := hexutil.Decode(rawHash)
	if err != nil || len(hashBytes) != common.HashLength {
		return fmt.Errorf("invalid transaction hash %q", rawHash)
	}

	client, err := wallet.NewRPCClient(urls)
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := wallet.InspectTransfer(ctx, client, common.BytesToHash(hashBytes))
	if err != nil {
		return err
	}

	printReport(out, report)

	if !report.Pending && !report.Succeeded {
		return fmt.Errorf("transaction %s failed in block %d", report.TxHash.Hex(), report.BlockNumber)
	}

	return nil
}

func printReport(out io.Writer, report *wallet.TransferReport) {
	fmt.Fprintf(out, "Transaction Hash: %s\n", report.TxHash.Hex())
	fmt.Fprintf(out, "From: %s\n", report.From.Hex())
	if report.To != nil {
		fmt.Fprintf(out, "To: %s\n", report.To.Hex())
	} else {
		fmt.Fprintln(out, "To: Contract Creation")
	}
	fmt.Fprintf(out, "Value: %s ETH\n", decimal.NewFromBigInt(report.ValueWei, -18).String())
	fmt.Fprintf(out, "Nonce: %d\n", report.Nonce)

	if report.Pending {
		fmt.Fprintln(out, "Status: pending")
		return
	}

	status := "success"
	if !report.Succeeded {
		status = "failed"
	}

	fmt.Fprintf(out, "Status: %s\n", status)
	fmt.Fprintf(out, "Block Number: %d\n", report.BlockNumber)
	fmt.Fprintf(out, "Gas Used: %d\n", report.GasUsed)
	fmt.Fprintf(out, "Gas Paid: %s ETH\n", decimal.NewFromBigInt(report.GasPaidWei(), -18).String())
}
