// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/fujidao/fujideploy/pkg/constants"
	"github.com/fujidao/fujideploy/pkg/utils"

	"github.com/ava-labs/avalanchego/utils/logging"
	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/accounts/abi/bind"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
	"github.com/ava-labs/libevm/ethclient"
	"go.uber.org/zap"
)

const (
	repeatsOnFailure     = 3
	sleepBetweenRepeats  = 1 * time.Second
	baseFeeFactor        = 2
	maxPriorityFeePerGas = 2500000000 // 2.5 gwei
)

// EthClient is the subset of the libevm ethclient the deployer uses
type EthClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	Close()
}

// used to mock the connection function
var ethclientDialContext = func(ctx context.Context, rpcURL string) (EthClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Client submits transactions signed by one key. Reads and sends are
// retried [repeatsOnFailure] times, each attempt with its own timeout.
type Client struct {
	EthClient EthClient
	URL       string

	log     logging.Logger
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
}

var _ Submitter = (*Client)(nil)

// NewClient connects to [rpcURL] and reads the chain id transactions are
// signed for
func NewClient(
	ctx context.Context,
	log logging.Logger,
	rpcURL string,
	key *ecdsa.PrivateKey,
) (*Client, error) {
	ethClient, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestLargeTimeout,
		func(ctx context.Context) (EthClient, error) {
			return ethclientDialContext(ctx, rpcURL)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure connecting to %s: %w", rpcURL, err)
	}
	client := &Client{
		EthClient: ethClient,
		URL:       rpcURL,
		log:       log,
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
	}
	if client.chainID, err = client.ChainID(ctx); err != nil {
		ethClient.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) Close() {
	c.EthClient.Close()
}

// From is the address transactions are sent from
func (c *Client) From() common.Address {
	return c.from
}

func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	if c.chainID != nil {
		return c.chainID, nil
	}
	chainID, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		c.EthClient.ChainID,
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure getting chain id from %s: %w", c.URL, err)
	}
	return chainID, nil
}

// Balance is the native balance of the sender, in wei
func (c *Client) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (*big.Int, error) {
			return c.EthClient.BalanceAt(ctx, c.from, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure obtaining balance of %s from %s: %w", c.from, c.URL, err)
	}
	return balance, nil
}

func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) ([]byte, error) {
			return c.EthClient.CodeAt(ctx, address, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure obtaining code from %s at address %s: %w", c.URL, address, err)
	}
	return code, nil
}

// CalculateTxParams returns the fee cap, tip and nonce for the next
// transaction. The fee cap doubles the current base fee.
func (c *Client) CalculateTxParams(ctx context.Context) (*big.Int, *big.Int, uint64, error) {
	header, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (*types.Header, error) {
			return c.EthClient.HeaderByNumber(ctx, nil)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failure getting last header from %s: %w", c.URL, err)
	}
	gasTipCap, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		c.EthClient.SuggestGasTipCap,
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failure suggesting gas tip on %s: %w", c.URL, err)
	}
	nonce, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (uint64, error) {
			return c.EthClient.PendingNonceAt(ctx, c.from)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failure getting nonce of %s on %s: %w", c.from, c.URL, err)
	}
	baseFee := big.NewInt(0)
	if header.BaseFee != nil {
		baseFee.Set(header.BaseFee)
	}
	gasFeeCap := baseFee.Mul(baseFee, big.NewInt(baseFeeFactor))
	gasFeeCap.Add(gasFeeCap, big.NewInt(maxPriorityFeePerGas))
	// nodes reject a tip above the fee cap
	if gasTipCap.Cmp(gasFeeCap) > 0 {
		gasTipCap = new(big.Int).Set(gasFeeCap)
	}
	return gasFeeCap, gasTipCap, nonce, nil
}

func (c *Client) EstimateGasLimit(ctx context.Context, req TxRequest) (uint64, error) {
	msg := ethereum.CallMsg{
		From:  c.from,
		To:    req.To,
		Data:  req.Data,
		Value: req.Value,
	}
	gas, err := utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (uint64, error) {
			return c.EthClient.EstimateGas(ctx, msg)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return 0, fmt.Errorf("failure estimating gas on %s: %w", c.URL, err)
	}
	return gas, nil
}

// Submit builds, signs and sends a dynamic fee transaction
func (c *Client) Submit(ctx context.Context, req TxRequest) (*types.Transaction, error) {
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	gasFeeCap, gasTipCap, nonce, err := c.CalculateTxParams(ctx)
	if err != nil {
		return nil, err
	}
	gas, err := c.EstimateGasLimit(ctx, req)
	if err != nil {
		return nil, err
	}
	value := req.Value
	if value == nil {
		value = big.NewInt(0)
	}
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gas,
		To:        req.To,
		Value:     value,
		Data:      req.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("failure signing transaction: %w", err)
	}
	_, err = utils.RetryWithContext(
		ctx,
		constants.APIRequestTimeout,
		func(ctx context.Context) (any, error) {
			return nil, c.EthClient.SendTransaction(ctx, signed)
		},
		repeatsOnFailure,
		sleepBetweenRepeats,
	)
	if err != nil {
		return nil, fmt.Errorf("failure sending transaction %s to %s: %w", signed.Hash(), c.URL, err)
	}
	c.log.Debug("sent transaction",
		zap.Stringer("tx", signed.Hash()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
	)
	return signed, nil
}

// Confirm polls for the receipt of [tx] until it is mined or [ctx] is done
func (c *Client) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.EthClient, tx)
	if err != nil {
		return nil, err
	}
	c.log.Debug("transaction mined",
		zap.Stringer("tx", tx.Hash()),
		zap.Uint64("status", receipt.Status),
		zap.Uint64("gasUsed", receipt.GasUsed),
	)
	return receipt, nil
}
