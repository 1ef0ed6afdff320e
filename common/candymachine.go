package common

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// CandyMachine is the decoded candy machine account. It is the program
// handle the mint transaction is built from.
type CandyMachine struct {
	ID             solana.PublicKey
	Program        solana.PublicKey
	Authority      solana.PublicKey
	Wallet         solana.PublicKey  // Treasury receiving mint payments.
	TokenMint      *solana.PublicKey // Nil when the price is paid in SOL.
	Config         solana.PublicKey
	UUID           string
	Price          uint64 // In lamports or TokenMint units.
	ItemsAvailable uint64
	ItemsRedeemed  uint64
	GoLiveDate     *time.Time
}

// CandyMachineState is what the program-state reader returns.
type CandyMachineState struct {
	SupplyInfo
	GoLiveDate time.Time // Zero when the candy machine has no go-live date.
	Machine    *CandyMachine
}
