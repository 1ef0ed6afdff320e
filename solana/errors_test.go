package solana

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/require"
	"gitlab.com/scpcorp/candy-minter/common"
)

func simulationError(code interface{}) error {
	return &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 4: custom program error: 0x137",
		Data: map[string]interface{}{
			"err": map[string]interface{}{
				"InstructionError": []interface{}{json.Number("4"), map[string]interface{}{"Custom": code}},
			},
		},
	}
}

func TestParsePreflightError(t *testing.T) {
	err := parsePreflightError(fmt.Errorf("wrapped: %w", simulationError(json.Number("311"))))
	var programErr *common.ProgramError
	require.True(t, errors.As(err, &programErr))
	require.Equal(t, CodeCandyMachineEmpty, programErr.Code)
	require.Equal(t, "Candy machine is empty!", programErr.Msg)

	err = parsePreflightError(simulationError(float64(CodeNotEnoughSOL)))
	require.True(t, errors.As(err, &programErr))
	require.Equal(t, CodeNotEnoughSOL, programErr.Code)
}

func TestParsePreflightErrorKeepsUnknown(t *testing.T) {
	orig := simulationError(json.Number("6000"))
	require.Equal(t, orig, parsePreflightError(orig))

	plain := errors.New("blockhash not found")
	require.Equal(t, plain, parsePreflightError(plain))

	noData := &jsonrpc.RPCError{Code: -32002, Message: "custom program error: 0x135"}
	require.Equal(t, error(noData), parsePreflightError(noData))
	require.Contains(t, parsePreflightError(noData).Error(), "0x135")
}

func TestCustomErrorCode(t *testing.T) {
	cases := []struct {
		value interface{}
		code  int
		ok    bool
	}{
		{value: nil},
		{value: "AccountInUse"},
		{value: map[string]interface{}{"InstructionError": []interface{}{float64(0), "InvalidArgument"}}},
		{value: map[string]interface{}{"InstructionError": []interface{}{float64(0)}}},
		{value: map[string]interface{}{"InstructionError": []interface{}{float64(4), map[string]interface{}{"Custom": float64(312)}}}, code: 312, ok: true},
		{value: map[string]interface{}{"InstructionError": []interface{}{json.Number("1"), map[string]interface{}{"Custom": json.Number("1")}}}, code: 1, ok: true},
	}
	for _, tc := range cases {
		code, ok := customErrorCode(tc.value)
		require.Equal(t, tc.ok, ok, "%v", tc.value)
		require.Equal(t, tc.code, code, "%v", tc.value)
	}
}

func TestSharedProgramErrorCodes(t *testing.T) {
	cases := []struct {
		code int
		msg  string
	}{
		{code: common.CodeCandyMachineEmpty, msg: "Candy machine is empty!"},
		{code: common.CodeCandyMachineNotLiveYet, msg: "Candy machine is not live yet!"},
	}
	for _, tc := range cases {
		err := parsePreflightError(simulationError(json.Number(fmt.Sprint(tc.code))))
		var programErr *common.ProgramError
		require.True(t, errors.As(err, &programErr))
		require.Equal(t, &common.ProgramError{Code: tc.code, Msg: tc.msg}, programErr)
	}
}
