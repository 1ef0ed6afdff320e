package common

import (
	"strings"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

func TestShortenAddress(t *testing.T) {
	cases := []struct {
		address string
		chars   int
		want    string
	}{
		{address: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", chars: 4, want: "9xQe...VFin"},
		{address: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", chars: 0, want: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
		{address: "abcdefgh", chars: 4, want: "abcdefgh"},
		{address: "", chars: 4, want: ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ShortenAddress(tc.address, tc.chars))
	}
}

func TestShortenAddressFuzz(t *testing.T) {
	f := fuzz.New()
	for i := 0; i < 100; i++ {
		var address string
		f.Fuzz(&address)
		short := ShortenAddress(address, ShortAddressChars)
		if len(address) <= 2*ShortAddressChars {
			require.Equal(t, address, short)
			continue
		}
		require.Len(t, short, 2*ShortAddressChars+3)
		require.True(t, strings.HasPrefix(short, address[:ShortAddressChars]))
		require.True(t, strings.HasSuffix(short, address[len(address)-ShortAddressChars:]))
	}
}

func TestLamportsToSol(t *testing.T) {
	require.Equal(t, 0.0, LamportsToSol(0))
	require.Equal(t, 1.0, LamportsToSol(LamportsPerSol))
	require.Equal(t, 0.49, LamportsToSol(490_000_000))
}

func TestRemainingItems(t *testing.T) {
	f := fuzz.New()
	for i := 0; i < 100; i++ {
		var available, redeemed uint32
		f.Fuzz(&available)
		f.Fuzz(&redeemed)
		remaining := RemainingItems(uint64(available), uint64(redeemed))
		if redeemed >= available {
			require.Zero(t, remaining)
		} else {
			require.Equal(t, uint64(available-redeemed), remaining)
		}
	}
}
