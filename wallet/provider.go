// Package wallet owns the signing side of revoker: the provider that can
// produce a signer, and the session lifecycle around it. The session holds
// the signing capability exclusively; the data pipeline never sees it.
package wallet

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/revoker/ui"
)

// Signer signs a transaction for the single address it is bound to.
type Signer interface {
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// Provider is the external wallet capability a session is built from.
// RequestAccount may prompt
// the user (passphrase, authorization); declining the prompt is a
// UserRejected outcome, not a crash.
type Provider interface {
	RequestAccount(ctx context.Context, u ui.UI) (common.Address, Signer, error)
}

// KeySigner signs with an in-memory secp256k1 key decrypted from a
// keystore file.
type KeySigner struct {
	key *keystore.Key
}

func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key.PrivateKey, chainID)
	if err != nil {
		return nil, err
	}
	return opts.Signer(crypto.PubkeyToAddress(s.key.PrivateKey.PublicKey), tx)
}

// KeystoreProvider unlocks a JSON keystore file on demand. The decrypted key
// lives only inside the signer it returns.
type KeystoreProvider struct {
	File string
}

func NewKeystoreProvider(file string) *KeystoreProvider {
	return &KeystoreProvider{File: file}
}

// RequestAccount asks the user to authorize the session and unlock the
// keystore. The authorization question is the explicit accept/reject step:
// answering no yields ErrUserRejected and no key material is touched.
func (p *KeystoreProvider) RequestAccount(ctx context.Context, u ui.UI) (common.Address, Signer, error) {
	if !u.Confirm(fmt.Sprintf("Connect wallet from keystore %s?", p.File), true) {
		return common.Address{}, nil, ErrUserRejected
	}

	content, err := os.ReadFile(p.File)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("reading keystore: %w", err)
	}

	u.Info("Keystore passphrase:")
	passphrase := u.AskSecret()

	key, err := keystore.DecryptKey(content, passphrase)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("unlocking keystore: %w", err)
	}
	return crypto.PubkeyToAddress(key.PrivateKey.PublicKey), &KeySigner{key: key}, nil
}
