package solana

import (
	"crypto/sha256"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestAnchorDiscriminator(t *testing.T) {
	sum := sha256.Sum256([]byte("global:mint_nft"))
	require.Equal(t, sum[:8], mintNftDiscriminator[:])
	require.NotEqual(t, mintNftDiscriminator, candyMachineAccountDiscriminator)
}

func TestMintNftInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	metadata, err := metadataAddr(mint)
	require.NoError(t, err)
	masterEdition, err := masterEditionAddr(mint)
	require.NoError(t, err)
	require.NotEqual(t, metadata, masterEdition)

	accounts := mintNftAccounts{
		config:          solana.NewWallet().PublicKey(),
		candyMachine:    solana.NewWallet().PublicKey(),
		payer:           payer,
		wallet:          solana.NewWallet().PublicKey(),
		metadata:        metadata,
		mint:            mint,
		masterEdition:   masterEdition,
		mintAuthority:   payer,
		updateAuthority: payer,
	}
	inst := accounts.instruction(CandyMachineProgramID)
	require.Equal(t, CandyMachineProgramID, inst.ProgramID())

	data, err := inst.Data()
	require.NoError(t, err)
	require.Equal(t, mintNftDiscriminator[:], data)

	metas := inst.Accounts()
	require.Len(t, metas, 14)
	var signers []solana.PublicKey
	for _, m := range metas {
		if m.IsSigner {
			signers = append(signers, m.PublicKey)
		}
	}
	require.Equal(t, []solana.PublicKey{payer, payer, payer}, signers)
}
