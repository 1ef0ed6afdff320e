package common

import "time"

const (
	// LamportsPerSol is the number of lamports in one SOL.
	LamportsPerSol = 1_000_000_000

	// ShortAddressChars is how many characters of a wallet address are kept
	// on each side when it is shortened for display.
	ShortAddressChars = 4

	DefaultNotificationDuration = 6 * time.Second
	DefaultTxTimeout            = 30 * time.Second
)
