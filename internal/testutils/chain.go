// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/fujidao/fujideploy/pkg/evm"

	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
)

// GasPerTx is the gas every receipt of the test chain reports
const GasPerTx = 21_000

var (
	ErrSubmitFailed = errors.New("submission rejected by test chain")

	deployedCode = []byte{0x60, 0x80}
)

// Chain is an in memory evm.Submitter. A contract creation gets the
// address derived from the sender and nonce, as on a real chain.
type Chain struct {
	lock sync.Mutex

	ID   *big.Int
	From common.Address

	nonce    uint64
	code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	txs      []*types.Transaction

	// RevertAt makes the n-th submitted transaction (1 based) revert
	RevertAt int
	// FailSubmitAt makes the n-th submission fail before anything is sent
	FailSubmitAt int
	// NeverMine leaves every confirmation waiting until its context is done
	NeverMine bool
}

var _ evm.Submitter = (*Chain)(nil)

func NewChain(chainID int64) *Chain {
	return &Chain{
		ID:       big.NewInt(chainID),
		From:     common.HexToAddress("0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"),
		code:     map[common.Address][]byte{},
		receipts: map[common.Hash]*types.Receipt{},
	}
}

func (c *Chain) ChainID(context.Context) (*big.Int, error) {
	return c.ID, nil
}

func (c *Chain) CodeAt(_ context.Context, address common.Address) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.code[address], nil
}

func (c *Chain) Submit(_ context.Context, req evm.TxRequest) (*types.Transaction, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := len(c.txs) + 1
	if c.FailSubmitAt == n {
		c.FailSubmitAt = 0
		return nil, fmt.Errorf("%w: tx %d", ErrSubmitFailed, n)
	}
	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID: c.ID,
		Nonce:   c.nonce,
		Gas:     1_000_000,
		To:      req.To,
		Value:   value,
		Data:    req.Data,
	})
	receipt := &types.Receipt{
		Status:  types.ReceiptStatusSuccessful,
		TxHash:  tx.Hash(),
		GasUsed: GasPerTx,
	}
	if c.RevertAt == n {
		receipt.Status = types.ReceiptStatusFailed
	}
	if req.To == nil {
		receipt.ContractAddress = crypto.CreateAddress(c.From, c.nonce)
		if receipt.Status == types.ReceiptStatusSuccessful {
			c.code[receipt.ContractAddress] = deployedCode
		}
	}
	c.nonce++
	c.txs = append(c.txs, tx)
	c.receipts[tx.Hash()] = receipt
	return tx, nil
}

func (c *Chain) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if c.NeverMine {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	receipt, ok := c.receipts[tx.Hash()]
	if !ok {
		return nil, fmt.Errorf("unknown tx %s", tx.Hash())
	}
	return receipt, nil
}

// Txs returns every submitted transaction, in order
func (c *Chain) Txs() []*types.Transaction {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]*types.Transaction{}, c.txs...)
}

// Deployments counts the contract creations submitted so far
func (c *Chain) Deployments() int {
	n := 0
	for _, tx := range c.Txs() {
		if tx.To() == nil {
			n++
		}
	}
	return n
}

// Calls counts the transactions submitted to existing contracts
func (c *Chain) Calls() int {
	return len(c.Txs()) - c.Deployments()
}

// CallsTo returns the calldata of every transaction sent to [address]
func (c *Chain) CallsTo(address common.Address) [][]byte {
	data := [][]byte{}
	for _, tx := range c.Txs() {
		if to := tx.To(); to != nil && *to == address {
			data = append(data, tx.Data())
		}
	}
	return data
}

// DeployedWith reports whether some creation carried [code] as prefix
func (c *Chain) DeployedWith(code []byte) bool {
	for _, tx := range c.Txs() {
		if tx.To() == nil && bytes.HasPrefix(tx.Data(), code) {
			return true
		}
	}
	return false
}

// ClearCode makes [address] look like an account without code, as after a
// chain reset
func (c *Chain) ClearCode(address common.Address) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.code, address)
}
