package wallet

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/pkg/errors"
)

// NewSignerFromKeystore decrypts an Ethereum keystore v3 JSON document.
func NewSignerFromKeystore(keystoreJSON []byte, password string, chainID *big.Int) (*Signer, error) {
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, errors.New("chain ID must be positive")
	}

	key, err := keystore.DecryptKey(keystoreJSON, password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt keystore")
	}

	return NewSignerFromKey(key.PrivateKey, chainID), nil
}

// KeySource names where the backend wallet key comes from. A keystore file takes
// precedence over a raw hex key.
type KeySource struct {
	HexKey           string
	KeystoreFile     string
	KeystorePassword string
}

func (k KeySource) Empty() bool {
	return k.HexKey == "" && k.KeystoreFile == ""
}

// Load builds the signer from the configured source.
func (k KeySource) Load(chainID *big.Int) (*Signer, error) {
	if k.KeystoreFile == "" {
		if k.HexKey == "" {
			return nil, errors.New("neither WALLET_KEYSTORE_FILE nor WALLET_PRIVATE_KEY is set")
		}
		return NewSigner(k.HexKey, chainID)
	}

	data, err := os.ReadFile(k.KeystoreFile)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore file %s", k.KeystoreFile)
	}

	return NewSignerFromKeystore(data, k.KeystorePassword, chainID)
}
