package common

import "github.com/gagliardetto/solana-go"

// Wallet is the connected wallet: its address and the ability to sign the
// transactions it pays for. cosigners are extra keys the transaction needs,
// e.g. a freshly generated mint account.
type Wallet interface {
	PublicKey() solana.PublicKey
	SignTransaction(tx *solana.Transaction, cosigners ...solana.PrivateKey) error
}
