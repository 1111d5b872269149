// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
)

// TxRequest is an unsigned transaction. A nil To creates a contract.
type TxRequest struct {
	To    *common.Address
	Data  []byte
	Value *big.Int
}

// Submitter is the boundary to the chain. Implementations sign with the
// deployer key.
type Submitter interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Submit(ctx context.Context, req TxRequest) (*types.Transaction, error)
	// Confirm blocks until [tx] is mined or [ctx] is done
	Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// SubmitAndConfirm issues [req] and waits up to [timeout] for its receipt.
// A reverted transaction fails with clierrors.ErrTxReverted, a receipt that
// does not arrive in time with clierrors.ErrConfirmationTimeout. The
// transaction is returned whenever it was sent.
func SubmitAndConfirm(
	ctx context.Context,
	s Submitter,
	req TxRequest,
	timeout time.Duration,
) (*types.Transaction, *types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	tx, err := s.Submit(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	receipt, err := s.Confirm(ctx, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return tx, nil, fmt.Errorf("%w: tx %s not mined after %s", clierrors.ErrConfirmationTimeout, tx.Hash(), timeout)
		}
		return tx, nil, fmt.Errorf("failure waiting for tx %s: %w", tx.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx, receipt, fmt.Errorf("%w: tx %s", clierrors.ErrTxReverted, tx.Hash())
	}
	return tx, receipt, nil
}
