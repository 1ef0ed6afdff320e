package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gitlab.com/scpcorp/candy-minter/common"
)

// KeypairWallet is a wallet holding its private key in memory.
type KeypairWallet struct {
	key solana.PrivateKey
}

var _ common.Wallet = (*KeypairWallet)(nil)

// NewWalletFromKeygenFile loads a keypair written by solana-keygen.
func NewWalletFromKeygenFile(path string) (*KeypairWallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot create private key: %w", err)
	}
	return &KeypairWallet{key: key}, nil
}

// NewWalletFromBase58 loads a 64-byte secret key in base58, the format
// browser wallets export.
func NewWalletFromBase58(secret string) (*KeypairWallet, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid secret key length, expected 64, got %d", len(raw))
	}
	if !bytes.Equal(ed25519.NewKeyFromSeed(raw[:32]), raw) {
		return nil, fmt.Errorf("secret key does not match its public half")
	}
	return &KeypairWallet{key: solana.PrivateKey(raw)}, nil
}

func (w *KeypairWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *KeypairWallet) SignTransaction(tx *solana.Transaction, cosigners ...solana.PrivateKey) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if w.key.PublicKey().Equals(key) {
			return &w.key
		}
		for i := range cosigners {
			if cosigners[i].PublicKey().Equals(key) {
				return &cosigners[i]
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot sign: %w", err)
	}
	return nil
}
