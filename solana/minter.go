package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"gitlab.com/scpcorp/candy-minter/common"
)

// Size of an SPL token mint account.
const mintAccountSize = 82

// MintOneToken builds, signs and sends a transaction minting one NFT from
// the candy machine to payer. A fresh mint account is created for the token,
// payer is its mint and update authority. The transaction signature is
// returned as soon as the transaction passes preflight; confirmation is up
// to the caller.
//
// Preflight failures with a known candy machine error code are returned as
// *common.ProgramError.
func (c *Client) MintOneToken(ctx context.Context, machine *common.CandyMachine, config solana.PublicKey, payer common.Wallet, treasury solana.PublicKey) (solana.Signature, error) {
	if machine.TokenMint != nil {
		return solana.Signature{}, ErrTokenMintPayment
	}
	mintKey, err := solana.NewRandomPrivateKey()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot create mint key: %w", err)
	}
	mint := mintKey.PublicKey()
	payerAddr := payer.PublicKey()

	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, mintAccountSize, c.Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot get rent exemption: %w", err)
	}
	ataAddr, _, err := solana.FindAssociatedTokenAddress(payerAddr, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot find ata: %w", err)
	}
	metadata, err := metadataAddr(mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot derive metadata account: %w", err)
	}
	masterEdition, err := masterEditionAddr(mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("cannot derive master edition account: %w", err)
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(rent, mintAccountSize, solana.TokenProgramID, payerAddr, mint).Build(),
		token.NewInitializeMintInstruction(0, payerAddr, payerAddr, mint, solana.SysVarRentPubkey).Build(),
		associatedtokenaccount.NewCreateInstruction(payerAddr, payerAddr, mint).Build(),
		token.NewMintToInstruction(1, mint, ataAddr, payerAddr, []solana.PublicKey{}).Build(),
		mintNftAccounts{
			config:          config,
			candyMachine:    machine.ID,
			payer:           payerAddr,
			wallet:          treasury,
			metadata:        metadata,
			mint:            mint,
			masterEdition:   masterEdition,
			mintAuthority:   payerAddr,
			updateAuthority: payerAddr,
		}.instruction(machine.Program),
	}

	tx, err := c.signTx(ctx, instructions, payer, mintKey)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.send(ctx, tx)
}

func (c *Client) send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	opts := rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.Commitment,
	}
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		err = parsePreflightError(err)
		return solana.Signature{}, fmt.Errorf("cannot send: %w", err)
	}
	return sig, nil
}

func (c *Client) signTx(ctx context.Context, instructions []solana.Instruction, payer common.Wallet, cosigners ...solana.PrivateKey) (*solana.Transaction, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.Commitment)
	if err != nil {
		return nil, fmt.Errorf("cannot get recent blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(payer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create transaction: %w", err)
	}

	if err := payer.SignTransaction(tx, cosigners...); err != nil {
		return nil, err
	}
	return tx, nil
}
