// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package mocks

import (
	"context"
	"math/big"

	"github.com/fujidao/fujideploy/pkg/evm"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/stretchr/testify/mock"
)

// Submitter is a mock type for the evm.Submitter type
type Submitter struct {
	mock.Mock
}

var _ evm.Submitter = (*Submitter)(nil)

// ChainID provides a mock function with given fields: ctx
func (_m *Submitter) ChainID(ctx context.Context) (*big.Int, error) {
	ret := _m.Called(ctx)

	var r0 *big.Int
	if rf, ok := ret.Get(0).(func(context.Context) *big.Int); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*big.Int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// CodeAt provides a mock function with given fields: ctx, address
func (_m *Submitter) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	ret := _m.Called(ctx, address)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, common.Address) []byte); ok {
		r0 = rf(ctx, address)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, common.Address) error); ok {
		r1 = rf(ctx, address)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Submit provides a mock function with given fields: ctx, req
func (_m *Submitter) Submit(ctx context.Context, req evm.TxRequest) (*types.Transaction, error) {
	ret := _m.Called(ctx, req)

	var r0 *types.Transaction
	if rf, ok := ret.Get(0).(func(context.Context, evm.TxRequest) *types.Transaction); ok {
		r0 = rf(ctx, req)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.Transaction)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, evm.TxRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Confirm provides a mock function with given fields: ctx, tx
func (_m *Submitter) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	ret := _m.Called(ctx, tx)

	var r0 *types.Receipt
	if rf, ok := ret.Get(0).(func(context.Context, *types.Transaction) *types.Receipt); ok {
		r0 = rf(ctx, tx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*types.Receipt)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *types.Transaction) error); ok {
		r1 = rf(ctx, tx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewSubmitter creates a new instance of Submitter. It also registers a
// cleanup function to assert the mocks expectations.
func NewSubmitter(t interface {
	mock.TestingT
	Cleanup(func())
},
) *Submitter {
	m := &Submitter{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
