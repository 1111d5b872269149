// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"math/big"
	"strings"
	"testing"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/crypto"
	"github.com/stretchr/testify/require"
)

const testABI = `[
	{"type":"constructor","inputs":[{"name":"admin","type":"address"},{"name":"fee","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"setFujiAdmin","inputs":[{"name":"admin","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var (
	addrA = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	addrB = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestParseMethodSignature(t *testing.T) {
	tests := []struct {
		signature string
		sig       string
		inputs    int
		errors    bool
	}{
		{signature: "setProviders(address[])", sig: "setProviders(address[])", inputs: 1},
		{signature: "setPermit(address, bool)", sig: "setPermit(address,bool)", inputs: 2},
		{signature: "setFee(uint)", sig: "setFee(uint256)", inputs: 1},
		{signature: "setFee(uint256 fee)", sig: "setFee(uint256)", inputs: 1},
		{signature: "initialize()", sig: "initialize()", inputs: 0},
		{signature: "noParens", errors: true},
		{signature: "(address)", errors: true},
		{signature: "f((address,bool))", errors: true},
		{signature: "f(notAType)", errors: true},
	}
	for _, tt := range tests {
		t.Run(tt.signature, func(t *testing.T) {
			method, err := ParseMethodSignature(tt.signature)
			if tt.errors {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.sig, method.Sig)
			require.Len(t, method.Inputs, tt.inputs)
			require.Equal(t, crypto.Keccak256([]byte(tt.sig))[:4], method.ID)
		})
	}
}

func TestResolveMethod(t *testing.T) {
	require := require.New(t)
	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(err)

	method, err := ResolveMethod(&parsed, "setFujiAdmin")
	require.NoError(err)
	require.Equal("setFujiAdmin(address)", method.Sig)

	method, err = ResolveMethod(nil, "setSwapper(address)")
	require.NoError(err)
	require.Equal("setSwapper(address)", method.Sig)

	_, err = ResolveMethod(&parsed, "setSwapper")
	require.ErrorContains(err, "not found")
	_, err = ResolveMethod(nil, "setSwapper")
	require.ErrorContains(err, "needs a full signature")
}

func TestPackCall(t *testing.T) {
	require := require.New(t)

	method, err := ParseMethodSignature("setProviders(address[])")
	require.NoError(err)
	data, err := PackCall(method, []any{[]any{addrA, addrB.Hex()}})
	require.NoError(err)
	require.Equal(method.ID, data[:4])
	// offset, length, two addresses
	require.Len(data, 4+4*32)
	require.Equal(addrB.Bytes(), data[len(data)-20:])

	method, err = ParseMethodSignature("setPermit(address,bool)")
	require.NoError(err)
	data, err = PackCall(method, []any{addrA, true})
	require.NoError(err)
	require.Len(data, 4+2*32)
	require.Equal(byte(1), data[len(data)-1])

	_, err = PackCall(method, []any{addrA})
	require.ErrorIs(err, clierrors.ErrInvalidContractValue)
}

func TestPackConstructor(t *testing.T) {
	require := require.New(t)
	parsed, err := abi.JSON(strings.NewReader(testABI))
	require.NoError(err)

	code := []byte{0x60, 0x80, 0x60, 0x40}
	data, err := PackConstructor(parsed, code, []any{addrA.Hex(), "1_000"})
	require.NoError(err)
	require.Equal(code, data[:len(code)])
	require.Len(data, len(code)+2*32)
	require.Equal(big.NewInt(1000), new(big.Int).SetBytes(data[len(data)-32:]))

	// the bytecode slice is not modified
	require.Equal([]byte{0x60, 0x80, 0x60, 0x40}, code)

	_, err = PackConstructor(parsed, code, []any{addrA})
	require.ErrorIs(err, clierrors.ErrInvalidContractValue)
}

func mustType(t *testing.T, name string) abi.Type {
	typ, err := abi.NewType(name, "", nil)
	require.NoError(t, err)
	return typ
}

func TestConvertValue(t *testing.T) {
	var bytes32 [32]byte
	bytes32[31] = 0x01
	tests := []struct {
		typ      string
		value    any
		expected any
		errors   bool
	}{
		{typ: "address", value: addrA, expected: addrA},
		{typ: "address", value: "0x00000000000000000000000000000000000000aa", expected: addrA},
		{typ: "address", value: "treasury", errors: true},
		{typ: "address", value: 12, errors: true},
		{typ: "bool", value: true, expected: true},
		{typ: "bool", value: "false", expected: false},
		{typ: "bool", value: "maybe", errors: true},
		{typ: "string", value: "FUJI", expected: "FUJI"},
		{typ: "uint256", value: 5, expected: big.NewInt(5)},
		{typ: "uint256", value: "0x10", expected: big.NewInt(16)},
		{typ: "uint256", value: float64(3), expected: big.NewInt(3)},
		{typ: "uint256", value: 1.5, errors: true},
		{typ: "uint256", value: -1, errors: true},
		{typ: "uint8", value: 7, expected: uint8(7)},
		{typ: "uint8", value: 300, errors: true},
		{typ: "int8", value: -128, expected: int8(-128)},
		{typ: "int8", value: 128, errors: true},
		{typ: "int64", value: "-5", expected: int64(-5)},
		{typ: "bytes32", value: "0x" + strings.Repeat("00", 31) + "01", expected: bytes32},
		{typ: "bytes32", value: "0x01", errors: true},
		{typ: "bytes", value: "0x0102", expected: []byte{1, 2}},
		{typ: "address[]", value: []any{addrA, addrB.Hex()}, expected: []common.Address{addrA, addrB}},
		{typ: "address[]", value: []any{}, expected: []common.Address{}},
		{typ: "address[]", value: addrA, errors: true},
		{typ: "address[2]", value: []any{addrA, addrB}, expected: [2]common.Address{addrA, addrB}},
		{typ: "address[2]", value: []any{addrA}, errors: true},
		{typ: "uint256[]", value: []any{1, "2"}, expected: []*big.Int{big.NewInt(1), big.NewInt(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			v, err := ConvertValue(mustType(t, tt.typ), tt.value)
			if tt.errors {
				require.ErrorIs(t, err, clierrors.ErrInvalidContractValue)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, v)
		})
	}
}
