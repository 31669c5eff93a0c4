package server

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"github/chapool/eth-relay/internal/config"
	"golang.org/x/term"
)

// promptKeystorePassword asks for the keystore password on an interactive terminal if a
// keystore file is configured without one.
func promptKeystorePassword(cfg *config.Server) error {
	if cfg.Chain.KeystoreFile == "" || cfg.Chain.KeystorePassword != "" {
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("WALLET_KEYSTORE_PASSWORD is not set and stdin is not a terminal")
	}

	//nolint:forbidigo // Password input requires direct terminal I/O
	fmt.Printf("Password for %s: ", cfg.Chain.KeystoreFile)

	password, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return errors.Wrap(err, "failed to read password from terminal")
	}

	//nolint:forbidigo // Password input requires direct terminal I/O
	fmt.Println()

	cfg.Chain.KeystorePassword = string(password)

	return nil
}
