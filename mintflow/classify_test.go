package mintflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/scpcorp/candy-minter/common"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultRules)
	cases := []struct {
		name    string
		err     error
		rule    string
		message string
		soldOut bool
	}{
		{
			name:    "sold out code",
			err:     &common.ProgramError{Code: 311, Msg: "Candy machine is empty!"},
			rule:    "sold out",
			message: "SOLD OUT!",
			soldOut: true,
		},
		{
			name:    "not live code",
			err:     fmt.Errorf("cannot send: %w", &common.ProgramError{Code: 312, Msg: "Candy machine is not live yet!"}),
			rule:    "not live yet",
			message: "Minting period hasn't started yet.",
		},
		{
			name:    "other code uses program message",
			err:     &common.ProgramError{Code: 309, Msg: "Not enough SOL to pay for this minting"},
			rule:    "program message",
			message: "Not enough SOL to pay for this minting",
		},
		{
			name:    "other code without message",
			err:     &common.ProgramError{Code: common.UnknownErrorCode},
			rule:    "program message",
			message: "Minting failed! Please try again!",
		},
		{
			name:    "structured wins over markers",
			err:     &common.ProgramError{Code: 300, Msg: "custom program error: 0x137"},
			rule:    "program message",
			message: "custom program error: 0x137",
		},
		{
			name:    "0x137 marker",
			err:     errors.New("Transaction simulation failed: Error processing Instruction 4: custom program error: 0x137"),
			rule:    "0x137",
			message: "SOLD OUT!",
		},
		{
			name:    "0x135 marker",
			err:     errors.New("custom program error: 0x135"),
			rule:    "0x135",
			message: "Insufficient funds to mint. Please fund your wallet.",
		},
		{
			name:    "0x138 marker passes through",
			err:     errors.New("custom program error: 0x138"),
			rule:    "0x138",
			message: "Minting failed! Please try again!",
		},
		{
			name:    "0x138 is checked first",
			err:     errors.New("0x138 0x137 0x135"),
			rule:    "0x138",
			message: "Minting failed! Please try again!",
		},
		{
			name:    "unknown",
			err:     errors.New("blockhash not found"),
			message: "Minting failed! Please try again!",
		},
		{
			name:    "timeout",
			err:     fmt.Errorf("%w after 30s", ErrConfirmationTimeout),
			message: "Minting failed! Please try again!",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule, cls := c.classify(tc.err)
			require.Equal(t, tc.rule, rule)
			require.Equal(t, tc.message, cls.Message)
			require.Equal(t, tc.soldOut, cls.SoldOut)
			require.Equal(t, cls, c.Classify(tc.err))
		})
	}
}

func TestClassifyCustomRules(t *testing.T) {
	c := NewClassifier([]Rule{
		{
			Name:     "always",
			Match:    func(error) bool { return true },
			Classify: message("custom"),
		},
	})
	require.Equal(t, "custom", c.Classify(&common.ProgramError{Code: 311}).Message)
	require.False(t, c.Classify(&common.ProgramError{Code: 311}).SoldOut)
}
