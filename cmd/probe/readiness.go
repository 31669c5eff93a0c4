package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/config"
	"github/chapool/eth-relay/internal/util/command"
)

func newReadiness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks the node and idempotency store are reachable",
		Long: `Checks the node and idempotency store are reachable

Connects to ETH_RPC_URL, verifies the chain matches the wallet and pings REDIS_ADDR if set.
Exits 0 when ready, 1 otherwise.`,
		Run: func(cmd *cobra.Command, _ []string) {
			cfg := config.DefaultServiceConfigFromEnv()

			err := command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				probeCtx, cancel := context.WithTimeout(ctx, cfg.Management.ReadinessTimeout)
				defer cancel()

				return s.Probe(probeCtx)
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "readiness: %v\n", err)
				os.Exit(1)
			}

			if verbose {
				fmt.Println("Ready.")
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Print the result")

	return cmd
}
