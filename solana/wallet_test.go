package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestNewWalletFromBase58(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	w, err := NewWalletFromBase58(base58.Encode(key))
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), w.PublicKey())

	_, err = NewWalletFromBase58("0OIl")
	require.Error(t, err)

	_, err = NewWalletFromBase58(base58.Encode(key[:32]))
	require.Error(t, err)

	tampered := make([]byte, len(key))
	copy(tampered, key)
	tampered[63] ^= 0xff
	_, err = NewWalletFromBase58(base58.Encode(tampered))
	require.Error(t, err)
}

func TestSignTransactionWithCosigner(t *testing.T) {
	payer := &KeypairWallet{key: solana.NewWallet().PrivateKey}
	cosigner := solana.NewWallet().PrivateKey

	newTx := func() *solana.Transaction {
		inst := solana.NewInstruction(
			CandyMachineProgramID,
			[]*solana.AccountMeta{
				{PublicKey: payer.PublicKey(), IsSigner: true, IsWritable: true},
				{PublicKey: cosigner.PublicKey(), IsSigner: true, IsWritable: true},
			},
			mintNftDiscriminator[:],
		)
		tx, err := solana.NewTransaction([]solana.Instruction{inst}, solana.Hash{}, solana.TransactionPayer(payer.PublicKey()))
		require.NoError(t, err)
		return tx
	}

	tx := newTx()
	require.NoError(t, payer.SignTransaction(tx, cosigner))
	require.Len(t, tx.Signatures, 2)
	require.NoError(t, tx.VerifySignatures())

	require.Error(t, payer.SignTransaction(newTx()))
}
