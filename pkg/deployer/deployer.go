// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer deploys contracts, or reuses the deployment recorded in
// the registry when it is still live on chain.
package deployer

import (
	"context"
	"fmt"
	"time"

	"github.com/fujidao/fujideploy/pkg/artifacts"
	"github.com/fujidao/fujideploy/pkg/clierrors"
	"github.com/fujidao/fujideploy/pkg/evm"
	"github.com/fujidao/fujideploy/pkg/plan"
	"github.com/fujidao/fujideploy/pkg/registry"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/common"
	"go.uber.org/zap"
)

// ContractHandle is a deployed contract, usable as argument of later steps
type ContractHandle struct {
	LogicalName string
	Contract    string
	Address     common.Address
	Network     string
	// TxHash is the creation transaction, zero when Reused
	TxHash  common.Hash
	GasUsed uint64
	Reused  bool
}

// Request is a deploy step whose arguments are already resolved
type Request struct {
	LogicalName string
	Contract    string
	Args        []any
}

type Deployer struct {
	log            logging.Logger
	submitter      evm.Submitter
	registry       registry.Registry
	artifacts      artifacts.Source
	bundle         string
	network        string
	confirmTimeout time.Duration
}

func New(
	log logging.Logger,
	submitter evm.Submitter,
	reg registry.Registry,
	source artifacts.Source,
	bundle string,
	network string,
	confirmTimeout time.Duration,
) *Deployer {
	return &Deployer{
		log:            log,
		submitter:      submitter,
		registry:       reg,
		artifacts:      source,
		bundle:         bundle,
		network:        network,
		confirmTimeout: confirmTimeout,
	}
}

func (d *Deployer) deploymentError(req Request, err error) error {
	return &clierrors.DeploymentError{
		LogicalName: req.LogicalName,
		Contract:    req.Contract,
		Cause:       err,
	}
}

// Deploy returns the handle of [req.LogicalName]. An address recorded in the
// registry with code on chain is reused without any transaction. Otherwise
// the contract is deployed and its address recorded before returning.
func (d *Deployer) Deploy(ctx context.Context, req Request) (ContractHandle, error) {
	if req.Contract == "" {
		req.Contract = req.LogicalName
	}
	for i, arg := range req.Args {
		if plan.IsUnresolved(arg) {
			return ContractHandle{}, d.deploymentError(req, fmt.Errorf("argument %d: %w", i, clierrors.ErrUnresolvedReference))
		}
	}
	handle := ContractHandle{
		LogicalName: req.LogicalName,
		Contract:    req.Contract,
		Network:     d.network,
	}

	recorded, ok, err := d.registry.Get(d.bundle, req.LogicalName)
	if err != nil {
		return ContractHandle{}, err
	}
	if ok {
		code, err := d.submitter.CodeAt(ctx, recorded)
		if err != nil {
			return ContractHandle{}, d.deploymentError(req, err)
		}
		if len(code) > 0 {
			d.log.Info("reusing deployment",
				zap.String("name", req.LogicalName),
				zap.Stringer("address", recorded),
			)
			handle.Address = recorded
			handle.Reused = true
			return handle, nil
		}
		d.log.Warn("recorded deployment has no code, redeploying",
			zap.String("name", req.LogicalName),
			zap.Stringer("address", recorded),
		)
	}

	artifact, err := d.artifacts.Artifact(req.Contract)
	if err != nil {
		return ContractHandle{}, d.deploymentError(req, err)
	}
	data, err := evm.PackConstructor(artifact.ABI, artifact.Bytecode, req.Args)
	if err != nil {
		return ContractHandle{}, d.deploymentError(req, err)
	}
	tx, receipt, err := evm.SubmitAndConfirm(ctx, d.submitter, evm.TxRequest{Data: data}, d.confirmTimeout)
	if err != nil {
		return ContractHandle{}, d.deploymentError(req, err)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return ContractHandle{}, d.deploymentError(req, fmt.Errorf("receipt of tx %s has no contract address", tx.Hash()))
	}
	handle.Address = receipt.ContractAddress
	handle.TxHash = tx.Hash()
	handle.GasUsed = receipt.GasUsed
	d.log.Info("deployed contract",
		zap.String("name", req.LogicalName),
		zap.String("contract", req.Contract),
		zap.Stringer("address", handle.Address),
		zap.Stringer("tx", handle.TxHash),
	)

	if err := d.registry.PutRecord(d.bundle, registry.Record{
		Name:     req.LogicalName,
		Contract: req.Contract,
		Address:  handle.Address,
		TxHash:   handle.TxHash,
	}); err != nil {
		return ContractHandle{}, err
	}
	return handle, nil
}
