package probe

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/api"
	"github/chapool/eth-relay/internal/config"
)

// the key is only parsed, any chain ID will do
var bigOne = big.NewInt(1)

func newLiveness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the configuration without contacting any node",
		Long: `Checks the configuration without contacting any node

Exits 0 if the wallet key, ETH_PRICE and BACKEND_WALLET are usable, 1 otherwise.`,
		Run: func(_ *cobra.Command, _ []string) {
			if errs := livenessErrors(config.DefaultServiceConfigFromEnv()); len(errs) > 0 {
				for _, err := range errs {
					fmt.Fprintf(os.Stderr, "liveness: %v\n", err)
				}
				os.Exit(1)
			}

			if verbose {
				fmt.Println("Alive.")
			}
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Print the result")

	return cmd
}

func livenessErrors(cfg config.Server) []error {
	var errs []error

	if len(cfg.Chain.RPCURLs) == 0 {
		errs = append(errs, fmt.Errorf("ETH_RPC_URL is not set"))
	}

	if keys := api.KeySource(cfg); keys.Empty() {
		errs = append(errs, fmt.Errorf("WALLET_PRIVATE_KEY is not set"))
	} else if _, err := keys.Load(bigOne); err != nil {
		errs = append(errs, err)
	}

	if _, err := api.NewRelayConfig(cfg); err != nil {
		errs = append(errs, err)
	}

	return errs
}
