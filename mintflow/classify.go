package mintflow

import (
	"errors"
	"strings"

	"gitlab.com/scpcorp/candy-minter/common"
)

// Messages shown to the user.
const (
	MsgSucceeded         = "Congratulations! Mint succeeded!"
	MsgConfirmFailed     = "Mint failed! Please try again!"
	MsgFailed            = "Minting failed! Please try again!"
	MsgSoldOut           = "SOLD OUT!"
	MsgNotStarted        = "Minting period hasn't started yet."
	MsgInsufficientFunds = "Insufficient funds to mint. Please fund your wallet."
)

type Classification struct {
	Message string
	SoldOut bool // The sold-out flag must be forced on.
}

// Rule maps failures matched by Match to a classification.
type Rule struct {
	Name     string
	Match    func(err error) bool
	Classify func(err error) Classification
}

func programError(err error) (*common.ProgramError, bool) {
	var programErr *common.ProgramError
	if errors.As(err, &programErr) {
		return programErr, true
	}
	return nil, false
}

func hasCode(code int) func(err error) bool {
	return func(err error) bool {
		programErr, ok := programError(err)
		return ok && programErr.Code == code
	}
}

func isStructured(err error) bool {
	_, ok := programError(err)
	return ok
}

func hasMarker(marker string) func(err error) bool {
	return func(err error) bool {
		return !isStructured(err) && strings.Contains(err.Error(), marker)
	}
}

func message(msg string) func(err error) Classification {
	return func(error) Classification {
		return Classification{Message: msg}
	}
}

// DefaultRules reproduce the mint screen messages. Markers are hex custom
// program error codes as they appear in simulation logs.
var DefaultRules = []Rule{
	{
		Name:  "sold out",
		Match: hasCode(common.CodeCandyMachineEmpty),
		Classify: func(error) Classification {
			return Classification{Message: MsgSoldOut, SoldOut: true}
		},
	},
	{
		Name:     "not live yet",
		Match:    hasCode(common.CodeCandyMachineNotLiveYet),
		Classify: message(MsgNotStarted),
	},
	{
		Name:  "program message",
		Match: isStructured,
		Classify: func(err error) Classification {
			programErr, _ := programError(err)
			if programErr.Msg == "" {
				return Classification{Message: MsgFailed}
			}
			return Classification{Message: programErr.Msg}
		},
	},
	{
		// 0x138 is "not live yet"; it keeps the default message.
		Name:     "0x138",
		Match:    hasMarker("0x138"),
		Classify: message(MsgFailed),
	},
	{
		Name:     "0x137",
		Match:    hasMarker("0x137"),
		Classify: message(MsgSoldOut),
	},
	{
		Name:     "0x135",
		Match:    hasMarker("0x135"),
		Classify: message(MsgInsufficientFunds),
	},
}

// Classifier evaluates rules in order, the first match wins.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

func (c *Classifier) Classify(err error) Classification {
	_, cls := c.classify(err)
	return cls
}

// classify also returns the name of the matched rule, empty for the
// fallback.
func (c *Classifier) classify(err error) (string, Classification) {
	if err == nil {
		return "", Classification{Message: MsgFailed}
	}
	for _, r := range c.rules {
		if r.Match(err) {
			return r.Name, r.Classify(err)
		}
	}
	return "", Classification{Message: MsgFailed}
}
