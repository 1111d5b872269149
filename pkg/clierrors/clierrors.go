// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clierrors

import (
	"errors"
	"fmt"
)

var (
	ErrPlan                 = errors.New("invalid plan")
	ErrNetworkMismatch      = errors.New("network mismatch")
	ErrDeployment           = errors.New("deployment failed")
	ErrWiring               = errors.New("wiring failed")
	ErrStorage              = errors.New("registry storage failure")
	ErrTxReverted           = errors.New("transaction reverted")
	ErrConfirmationTimeout  = errors.New("timed out waiting for transaction confirmation")
	ErrUnresolvedReference  = errors.New("argument still contains an unresolved step reference")
	ErrBundleLocked         = errors.New("bundle is locked by another run")
	ErrArtifactNotFound     = errors.New("contract artifact not found")
	ErrInvalidPrivateKey    = errors.New("invalid private key")
	ErrNoRegistryBackend    = errors.New("unknown registry backend")
	ErrUnsupportedNetwork   = errors.New("unsupported network")
	ErrMissingRPCEndpoint   = errors.New("rpc endpoint is required for custom networks")
	ErrInvalidContractValue = errors.New("invalid contract argument")
)

// PlanError reports a malformed plan. It is always detected before any
// transaction is issued.
type PlanError struct {
	Step   string
	Reason string
}

func NewPlanError(step string, format string, args ...interface{}) *PlanError {
	return &PlanError{
		Step:   step,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *PlanError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("%s: %s", ErrPlan, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrPlan, e.Step, e.Reason)
}

func (*PlanError) Is(target error) bool {
	return target == ErrPlan
}

// NetworkMismatchError is the plan error raised by the network guard.
type NetworkMismatchError struct {
	Expected string
	Actual   string
}

func (e *NetworkMismatchError) Error() string {
	return fmt.Sprintf("%s: plan expects network %q but the active network is %q", ErrNetworkMismatch, e.Expected, e.Actual)
}

func (*NetworkMismatchError) Is(target error) bool {
	return target == ErrNetworkMismatch || target == ErrPlan
}

type DeploymentError struct {
	LogicalName string
	Contract    string
	Cause       error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("%s for %s (%s): %s", ErrDeployment, e.LogicalName, e.Contract, e.Cause)
}

func (e *DeploymentError) Unwrap() error {
	return e.Cause
}

func (*DeploymentError) Is(target error) bool {
	return target == ErrDeployment
}

type WiringError struct {
	Target string
	Action string
	Method string
	Cause  error
}

func (e *WiringError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s on %s (%s): %s", ErrWiring, e.Target, e.Action, e.Cause)
	}
	return fmt.Sprintf("%s on %s (%s) calling %s: %s", ErrWiring, e.Target, e.Action, e.Method, e.Cause)
}

func (e *WiringError) Unwrap() error {
	return e.Cause
}

func (*WiringError) Is(target error) bool {
	return target == ErrWiring
}

// StorageError is fatal for the run: a registry that cannot be read or
// written never yields a partial silent success.
type StorageError struct {
	Op     string
	Bundle string
	Cause  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s bundle %q: %s", ErrStorage, e.Op, e.Bundle, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func (*StorageError) Is(target error) bool {
	return target == ErrStorage
}

// StepError carries the identifier of the plan step that aborted a run.
type StepError struct {
	Index int
	ID    string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s", e.Index+1, e.ID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
