package common

// LamportsToSol converts a lamport balance into SOL.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}

// ShortenAddress keeps the first and the last chars characters of address
// and joins them with "...". Short addresses are returned as is.
func ShortenAddress(address string, chars int) string {
	if chars <= 0 || len(address) <= 2*chars {
		return address
	}
	return address[:chars] + "..." + address[len(address)-chars:]
}

// RemainingItems returns how many items are left given the totals reported
// by the candy machine. It never underflows.
func RemainingItems(available, redeemed uint64) uint64 {
	if redeemed >= available {
		return 0
	}
	return available - redeemed
}
