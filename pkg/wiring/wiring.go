// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wiring issues the configuration transactions that connect
// deployed contracts to each other.
package wiring

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fujidao/fujideploy/pkg/artifacts"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/deployer"
	"github.com/fujidao/fujideploy/pkg/evm"
	"github.com/fujidao/fujideploy/pkg/plan"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"go.uber.org/zap"
)

// Call is a method call whose arguments are already resolved. Method is
// either a full signature, "setProviders(address[])", or a bare name found
// in the abi of the target contract.
type Call struct {
	Method string
	Args   []any
}

type Result struct {
	Target   string
	Action   string
	TxHashes []common.Hash
	GasUsed  uint64
}

type Executor struct {
	log            logging.Logger
	submitter      evm.Submitter
	artifacts      artifacts.Source
	confirmTimeout time.Duration
}

func New(
	log logging.Logger,
	submitter evm.Submitter,
	source artifacts.Source,
	confirmTimeout time.Duration,
) *Executor {
	return &Executor{
		log:            log,
		submitter:      submitter,
		artifacts:      source,
		confirmTimeout: confirmTimeout,
	}
}

// Execute sends one transaction per call, in order, each confirmed before
// the next is sent. Nothing is read from the target first, so running an
// action again sends its transactions again. On failure the result holds
// the transactions confirmed so far.
func (e *Executor) Execute(
	ctx context.Context,
	target deployer.ContractHandle,
	action string,
	calls []Call,
) (Result, error) {
	result := Result{
		Target: target.LogicalName,
		Action: action,
	}
	var contractABI *abi.ABI
	for _, call := range calls {
		wiringError := func(err error) error {
			return &clierrors.WiringError{
				Target: target.LogicalName,
				Action: action,
				Method: call.Method,
				Cause:  err,
			}
		}
		for i, arg := range call.Args {
			if plan.IsUnresolved(arg) {
				return result, wiringError(fmt.Errorf("argument %d: %w", i, clierrors.ErrUnresolvedReference))
			}
		}
		if contractABI == nil && !strings.Contains(call.Method, "(") {
			artifact, err := e.artifacts.Artifact(target.Contract)
			if err != nil {
				return result, wiringError(err)
			}
			contractABI = &artifact.ABI
		}
		method, err := evm.ResolveMethod(contractABI, call.Method)
		if err != nil {
			return result, wiringError(err)
		}
		data, err := evm.PackCall(method, call.Args)
		if err != nil {
			return result, wiringError(err)
		}
		to := target.Address
		tx, receipt, err := evm.SubmitAndConfirm(ctx, e.submitter, evm.TxRequest{To: &to, Data: data}, e.confirmTimeout)
		if err != nil {
			return result, wiringError(err)
		}
		result.TxHashes = append(result.TxHashes, tx.Hash())
		result.GasUsed += receipt.GasUsed
		e.log.Info("wired",
			zap.String("target", target.LogicalName),
			zap.String("action", action),
			zap.String("method", method.Sig),
			zap.Stringer("tx", tx.Hash()),
		)
	}
	return result, nil
}
