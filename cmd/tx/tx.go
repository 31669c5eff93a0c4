package tx

import (
	"github.com/spf13/cobra"
	"github/chapool/eth-relay/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("tx",
		newCheck(),
	)
}
