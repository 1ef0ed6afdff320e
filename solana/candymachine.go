package solana

import (
	"context"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gitlab.com/scpcorp/candy-minter/common"
)

// https://github.com/metaplex-foundation/metaplex/blob/master/rust/nft-candy-machine/src/lib.rs
type candyMachineData struct {
	UUID           string
	Price          uint64
	ItemsAvailable uint64
	GoLiveDate     *int64 `bin:"optional"`
}

type candyMachineAccount struct {
	Discriminator [8]byte
	Authority     solana.PublicKey
	Wallet        solana.PublicKey
	TokenMint     *solana.PublicKey `bin:"optional"`
	Config        solana.PublicKey
	Data          candyMachineData
	ItemsRedeemed uint64
	Bump          uint8
}

func decodeCandyMachine(id, program solana.PublicKey, data []byte) (*common.CandyMachine, error) {
	var acc candyMachineAccount
	if err := bin.NewBorshDecoder(data).Decode(&acc); err != nil {
		return nil, fmt.Errorf("cannot decode candy machine account: %w", err)
	}
	if acc.Discriminator != candyMachineAccountDiscriminator {
		return nil, ErrNotCandyMachine
	}
	machine := &common.CandyMachine{
		ID:             id,
		Program:        program,
		Authority:      acc.Authority,
		Wallet:         acc.Wallet,
		TokenMint:      acc.TokenMint,
		Config:         acc.Config,
		UUID:           acc.Data.UUID,
		Price:          acc.Data.Price,
		ItemsAvailable: acc.Data.ItemsAvailable,
		ItemsRedeemed:  acc.ItemsRedeemed,
	}
	if acc.Data.GoLiveDate != nil {
		goLive := time.Unix(*acc.Data.GoLiveDate, 0).UTC()
		machine.GoLiveDate = &goLive
	}
	return machine, nil
}

// CandyMachineState reads the candy machine account and returns its supply
// counters and go-live date. The wallet does not affect the result.
func (c *Client) CandyMachineState(ctx context.Context, _ solana.PublicKey, candyMachineID solana.PublicKey) (*common.CandyMachineState, error) {
	res, err := c.rpc.GetAccountInfoWithOpts(ctx, candyMachineID, &rpc.GetAccountInfoOpts{
		Commitment: c.Commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot get candy machine account: %w", err)
	}
	if !res.Value.Owner.Equals(c.CandyMachineProgram) {
		return nil, ErrNotCandyMachine
	}
	machine, err := decodeCandyMachine(candyMachineID, res.Value.Owner, res.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}
	state := &common.CandyMachineState{
		SupplyInfo: common.SupplyInfo{
			ItemsAvailable: machine.ItemsAvailable,
			ItemsRedeemed:  machine.ItemsRedeemed,
			ItemsRemaining: common.RemainingItems(machine.ItemsAvailable, machine.ItemsRedeemed),
		},
		Machine: machine,
	}
	if machine.GoLiveDate != nil {
		state.GoLiveDate = *machine.GoLiveDate
	}
	return state, nil
}
