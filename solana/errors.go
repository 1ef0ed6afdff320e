package solana

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"gitlab.com/scpcorp/candy-minter/common"
)

var (
	ErrNotCandyMachine = fmt.Errorf("account is not a candy machine")

	// ErrTokenMintPayment indicates that the candy machine is paid in SPL
	// tokens, which mintOneToken does not support.
	ErrTokenMintPayment = fmt.Errorf("candy machine is paid in SPL tokens")
)

// Candy machine custom program error codes.
const (
	CodeIncorrectOwner                = 300
	CodeUninitialized                 = 301
	CodeMintMismatch                  = 302
	CodeIndexGreaterThanLength        = 303
	CodeConfigMustHaveAtleastOneEntry = 304
	CodeNumericalOverflowError        = 305
	CodeTooManyCreators               = 306
	CodeUuidMustBeExactly6Length      = 307
	CodeNotEnoughTokens               = 308
	CodeNotEnoughSOL                  = 309
	CodeTokenTransferFailed           = 310
	CodeCandyMachineEmpty             = common.CodeCandyMachineEmpty
	CodeCandyMachineNotLiveYet        = common.CodeCandyMachineNotLiveYet
	CodeConfigLineMismatch            = 313
)

// https://github.com/metaplex-foundation/metaplex/blob/master/rust/nft-candy-machine/src/lib.rs
var customErrorMap = map[int]string{
	CodeIncorrectOwner:                "Account does not have correct owner!",
	CodeUninitialized:                 "Account is not initialized!",
	CodeMintMismatch:                  "Mint Mismatch!",
	CodeIndexGreaterThanLength:        "Index greater than length!",
	CodeConfigMustHaveAtleastOneEntry: "Config must have atleast one entry!",
	CodeNumericalOverflowError:        "Numerical overflow error!",
	CodeTooManyCreators:               "Can only provide up to 4 creators to candy machine (because candy machine is one)!",
	CodeUuidMustBeExactly6Length:      "Uuid must be exactly of 6 length",
	CodeNotEnoughTokens:               "Not enough tokens to pay for this minting",
	CodeNotEnoughSOL:                  "Not enough SOL to pay for this minting",
	CodeTokenTransferFailed:           "Token transfer failed",
	CodeCandyMachineEmpty:             "Candy machine is empty!",
	CodeCandyMachineNotLiveYet:        "Candy machine is not live yet!",
	CodeConfigLineMismatch:            "Number of config lines must be at least number of items available",
}

// parsePreflightError turns a simulation failure carrying a known candy
// machine error code into *common.ProgramError. Anything else is returned
// unchanged, so its message (e.g. "custom program error: 0x137") is kept.
func parsePreflightError(origErr error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(origErr, &rpcErr) {
		return origErr
	}
	dataMap, ok := rpcErr.Data.(map[string]interface{})
	if !ok {
		return origErr
	}
	errVal, ok := dataMap["err"]
	if !ok {
		return origErr
	}
	if err := parseErrorValue(errVal); err != nil {
		return err
	}
	return origErr
}

func parseErrorValue(errorValue interface{}) error {
	code, ok := customErrorCode(errorValue)
	if !ok {
		return nil
	}
	msg, ok := customErrorMap[code]
	if !ok {
		return nil
	}
	return &common.ProgramError{Code: code, Msg: msg}
}

// customErrorCode extracts N from {"InstructionError": [idx, {"Custom": N}]}.
func customErrorCode(errorValue interface{}) (int, bool) {
	if errorValue == nil {
		return 0, false
	}
	errMap, ok := errorValue.(map[string]interface{})
	if !ok {
		return 0, false
	}
	instructionErrorVal, ok := errMap["InstructionError"]
	if !ok {
		return 0, false
	}
	instructionErrorSlice, ok := instructionErrorVal.([]interface{})
	if !ok {
		return 0, false
	}
	if len(instructionErrorSlice) < 2 {
		return 0, false
	}
	return decodeCustomError(instructionErrorSlice)
}

func decodeCustomError(instructionErrorSlice []interface{}) (int, bool) {
	customErrorStructMap, ok := instructionErrorSlice[1].(map[string]interface{})
	if !ok {
		return 0, false
	}
	if len(customErrorStructMap) != 1 {
		return 0, false
	}
	errorCodeRaw, ok := customErrorStructMap["Custom"]
	if !ok {
		return 0, false
	}

	switch errorCodeNum := errorCodeRaw.(type) {
	case json.Number: // This type comes from a Preflight error
		errorCode64, err := errorCodeNum.Int64()
		if err != nil {
			return 0, false
		}
		return int(errorCode64), true
	case float64: // This type comes from a Transaction error
		return int(errorCodeNum), true
	default:
		return 0, false
	}
}
