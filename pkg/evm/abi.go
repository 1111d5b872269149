// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
)

// normalizeType expands the solidity aliases abi.NewType does not accept
func normalizeType(t string) string {
	suffix := ""
	if i := strings.Index(t, "["); i != -1 {
		t, suffix = t[:i], t[i:]
	}
	switch t {
	case "uint", "int":
		t += "256"
	case "byte":
		t = "bytes1"
	}
	return t + suffix
}

// splitTypes splits "address,uint256[] , bool" into its types
func splitTypes(s string) []string {
	types := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		// "address provider" carries a parameter name
		if fields := strings.Fields(t); len(fields) > 0 {
			types = append(types, fields[0])
		}
	}
	return types
}

// ParseMethodSignature builds the nonpayable function described by a
// signature such as "setProviders(address[])"
func ParseMethodSignature(signature string) (abi.Method, error) {
	signature = strings.TrimSpace(signature)
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return abi.Method{}, fmt.Errorf("invalid method signature %q, expected name(type,...)", signature)
	}
	name := signature[:open]
	inputTypes := signature[open+1 : len(signature)-1]
	if strings.ContainsAny(inputTypes, "()") {
		return abi.Method{}, fmt.Errorf("method signature %q: tuple arguments are not supported", signature)
	}
	inputs := []map[string]interface{}{}
	for _, t := range splitTypes(inputTypes) {
		t = normalizeType(t)
		inputs = append(inputs, map[string]interface{}{
			"internalType": t,
			"type":         t,
			"name":         "",
		})
	}
	abiMap := []map[string]interface{}{
		{
			"inputs":          inputs,
			"outputs":         []map[string]interface{}{},
			"name":            name,
			"stateMutability": "nonpayable",
			"type":            "function",
		},
	}
	abiBytes, err := json.Marshal(abiMap)
	if err != nil {
		return abi.Method{}, err
	}
	parsed, err := abi.JSON(strings.NewReader(string(abiBytes)))
	if err != nil {
		return abi.Method{}, fmt.Errorf("method signature %q: %w", signature, err)
	}
	method, ok := parsed.Methods[name]
	if !ok {
		return abi.Method{}, fmt.Errorf("method signature %q could not be parsed", signature)
	}
	return method, nil
}

// ResolveMethod returns the method [method] designates. A full signature is
// parsed on its own, a bare name is looked up in [contractABI].
func ResolveMethod(contractABI *abi.ABI, method string) (abi.Method, error) {
	if strings.Contains(method, "(") {
		return ParseMethodSignature(method)
	}
	if contractABI == nil {
		return abi.Method{}, fmt.Errorf("method %q needs a full signature, no abi is available", method)
	}
	m, ok := contractABI.Methods[method]
	if !ok {
		return abi.Method{}, fmt.Errorf("method %q not found in abi", method)
	}
	return m, nil
}

// PackCall encodes a call to [method] with [args]
func PackCall(method abi.Method, args []any) ([]byte, error) {
	values, err := ConvertArgs(method.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Sig, err)
	}
	packed, err := method.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Sig, err)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}

// PackConstructor returns the creation code: [bytecode] followed by the
// encoded constructor arguments
func PackConstructor(contractABI abi.ABI, bytecode []byte, args []any) ([]byte, error) {
	values, err := ConvertArgs(contractABI.Constructor.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	packed, err := contractABI.Constructor.Inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	return append(append([]byte{}, bytecode...), packed...), nil
}

// ConvertArgs converts plan values (strings, numbers, bools, addresses and
// lists of those) into the go types abi packing expects
func ConvertArgs(arguments abi.Arguments, values []any) ([]any, error) {
	if len(arguments) != len(values) {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", clierrors.ErrInvalidContractValue, len(arguments), len(values))
	}
	converted := make([]any, 0, len(values))
	for i, argument := range arguments {
		v, err := ConvertValue(argument.Type, values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		converted = append(converted, v)
	}
	return converted, nil
}

func invalidValue(t abi.Type, v any) error {
	return fmt.Errorf("%w: %v (%T) is not a valid %s", clierrors.ErrInvalidContractValue, v, v, t.String())
}

func ConvertValue(t abi.Type, v any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		switch value := v.(type) {
		case common.Address:
			return value, nil
		case string:
			if !common.IsHexAddress(value) {
				return nil, invalidValue(t, v)
			}
			return common.HexToAddress(value), nil
		}
	case abi.BoolTy:
		switch value := v.(type) {
		case bool:
			return value, nil
		case string:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, invalidValue(t, v)
			}
			return b, nil
		}
	case abi.StringTy:
		if value, ok := v.(string); ok {
			return value, nil
		}
	case abi.IntTy, abi.UintTy:
		return convertInteger(t, v)
	case abi.BytesTy:
		return convertBytes(t, v)
	case abi.FixedBytesTy:
		b, err := convertBytes(t, v)
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, invalidValue(t, v)
		}
		arr := reflect.New(t.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return convertList(t, v)
	default:
		return nil, fmt.Errorf("%w: unsupported abi type %s", clierrors.ErrInvalidContractValue, t.String())
	}
	return nil, invalidValue(t, v)
}

func convertList(t abi.Type, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, invalidValue(t, v)
	}
	n := rv.Len()
	var out reflect.Value
	if t.T == abi.ArrayTy {
		if n != t.Size {
			return nil, fmt.Errorf("%w: expected %d elements for %s, got %d", clierrors.ErrInvalidContractValue, t.Size, t.String(), n)
		}
		out = reflect.New(t.GetType()).Elem()
	} else {
		out = reflect.MakeSlice(t.GetType(), n, n)
	}
	for i := 0; i < n; i++ {
		e, err := ConvertValue(*t.Elem, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(e))
	}
	return out.Interface(), nil
}

func convertBytes(t abi.Type, v any) ([]byte, error) {
	switch value := v.(type) {
	case []byte:
		return value, nil
	case common.Hash:
		return value.Bytes(), nil
	case string:
		b, err := hexutil.Decode(value)
		if err != nil {
			return nil, invalidValue(t, v)
		}
		return b, nil
	}
	return nil, invalidValue(t, v)
}

func toBigInt(v any) (*big.Int, bool) {
	switch value := v.(type) {
	case *big.Int:
		return new(big.Int).Set(value), true
	case int:
		return big.NewInt(int64(value)), true
	case int64:
		return big.NewInt(value), true
	case int32:
		return big.NewInt(int64(value)), true
	case uint:
		return new(big.Int).SetUint64(uint64(value)), true
	case uint64:
		return new(big.Int).SetUint64(value), true
	case uint32:
		return new(big.Int).SetUint64(uint64(value)), true
	case float64:
		if value != math.Trunc(value) || math.IsInf(value, 0) {
			return nil, false
		}
		n, _ := new(big.Float).SetFloat64(value).Int(nil)
		return n, true
	case string:
		// base 0 accepts 0x hex as well as decimal
		return new(big.Int).SetString(strings.ReplaceAll(value, "_", ""), 0)
	}
	return nil, false
}

func convertInteger(t abi.Type, v any) (any, error) {
	n, ok := toBigInt(v)
	if !ok {
		return nil, invalidValue(t, v)
	}
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, invalidValue(t, v)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, invalidValue(t, v)
		}
	}
	if t.Size > 64 {
		return n, nil
	}
	out := reflect.New(t.GetType()).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}
