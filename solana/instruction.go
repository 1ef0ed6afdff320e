package solana

import (
	"crypto/sha256"

	"github.com/gagliardetto/solana-go"
)

// Anchor prefixes instruction data and account data with the first 8 bytes
// of sha256("<namespace>:<name>").
func anchorDiscriminator(namespace, name string) [8]byte {
	var d [8]byte
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], sum[:8])
	return d
}

var (
	candyMachineAccountDiscriminator = anchorDiscriminator("account", "CandyMachine")
	mintNftDiscriminator             = anchorDiscriminator("global", "mint_nft")
)

// mintNftAccounts lists accounts of the candy machine mint_nft instruction.
type mintNftAccounts struct {
	config, candyMachine, payer, wallet solana.PublicKey
	metadata, mint, masterEdition       solana.PublicKey
	mintAuthority, updateAuthority      solana.PublicKey
}

func (a mintNftAccounts) instruction(program solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		program,
		[]*solana.AccountMeta{
			{
				PublicKey:  a.config,
				IsSigner:   false,
				IsWritable: false,
			},
			{
				PublicKey:  a.candyMachine,
				IsSigner:   false,
				IsWritable: true,
			},
			{
				PublicKey:  a.payer,
				IsSigner:   true,
				IsWritable: true,
			},
			{
				PublicKey:  a.wallet,
				IsSigner:   false,
				IsWritable: true,
			},
			{
				PublicKey:  a.metadata,
				IsSigner:   false,
				IsWritable: true,
			},
			{
				PublicKey:  a.mint,
				IsSigner:   false,
				IsWritable: true,
			},
			{
				PublicKey:  a.mintAuthority,
				IsSigner:   true,
				IsWritable: false,
			},
			{
				PublicKey:  a.updateAuthority,
				IsSigner:   true,
				IsWritable: false,
			},
			{
				PublicKey:  a.masterEdition,
				IsSigner:   false,
				IsWritable: true,
			},
			{
				PublicKey:  TokenMetadataProgramID,
				IsSigner:   false,
				IsWritable: false,
			},
			{
				PublicKey:  solana.TokenProgramID,
				IsSigner:   false,
				IsWritable: false,
			},
			{
				PublicKey:  solana.SystemProgramID,
				IsSigner:   false,
				IsWritable: false,
			},
			{
				PublicKey:  solana.SysVarRentPubkey,
				IsSigner:   false,
				IsWritable: false,
			},
			{
				PublicKey:  solana.SysVarClockPubkey,
				IsSigner:   false,
				IsWritable: false,
			},
		},
		mintNftDiscriminator[:],
	)
}

func metadataAddr(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID[:], mint[:]},
		TokenMetadataProgramID,
	)
	return addr, err
}

func masterEditionAddr(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID[:], mint[:], []byte("edition")},
		TokenMetadataProgramID,
	)
	return addr, err
}
