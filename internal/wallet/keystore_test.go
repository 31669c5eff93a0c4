package wallet_test

import (
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/eth-relay/internal/wallet"
)

func writeKeystore(t *testing.T, password string) (string, *keystore.Key) {
	t.Helper()

	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}

	data, err := keystore.EncryptKey(key, password, keystore.LightScryptN, keystore.LightScryptP)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backend.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path, key
}

func TestKeySourceKeystore(t *testing.T) {
	path, key := writeKeystore(t, "correct horse")

	signer, err := wallet.KeySource{
		HexKey:           "not used",
		KeystoreFile:     path,
		KeystorePassword: "correct horse",
	}.Load(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, key.Address, signer.Address())

	_, err = wallet.KeySource{KeystoreFile: path, KeystorePassword: "wrong"}.Load(big.NewInt(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt keystore")

	_, err = wallet.KeySource{KeystoreFile: filepath.Join(t.TempDir(), "missing.json")}.Load(big.NewInt(1))
	require.Error(t, err)
}

func TestKeySourceHexKey(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := "0x" + hex.EncodeToString(crypto.FromECDSA(privateKey))

	source := wallet.KeySource{HexKey: hexKey}
	assert.False(t, source.Empty())

	signer, err := source.Load(big.NewInt(11155111))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(privateKey.PublicKey), signer.Address())
	assert.Equal(t, int64(11155111), signer.ChainID().Int64())

	_, err = wallet.KeySource{HexKey: "0xzz"}.Load(big.NewInt(1))
	require.Error(t, err)

	_, err = source.Load(big.NewInt(0))
	require.Error(t, err)

	empty := wallet.KeySource{}
	assert.True(t, empty.Empty())
	_, err = empty.Load(big.NewInt(1))
	require.Error(t, err)
}
