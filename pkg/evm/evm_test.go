// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/fujidao/fujideploy/pkg/clierrors"

	"github.com/ava-labs/avalanchego/utils/logging"
	ethereum "github.com/ava-labs/libevm"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/core/types"
	"github.com/ava-labs/libevm/crypto"
	"github.com/stretchr/testify/require"
)

type fakeEthClient struct {
	chainID  *big.Int
	balance  *big.Int
	baseFee  *big.Int
	tip      *big.Int
	nonce    uint64
	gas      uint64
	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	code     map[common.Address][]byte
	closed   bool
}

func newFakeEthClient() *fakeEthClient {
	return &fakeEthClient{
		chainID:  big.NewInt(43113),
		balance:  big.NewInt(2_000_000_000_000_000_000),
		baseFee:  big.NewInt(25_000_000_000),
		tip:      big.NewInt(1_000_000_000),
		nonce:    7,
		gas:      100_000,
		receipts: map[common.Hash]*types.Receipt{},
		code:     map[common.Address][]byte{},
	}
}

func (f *fakeEthClient) ChainID(context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeEthClient) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, nil
}

func (f *fakeEthClient) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	return f.code[account], nil
}

func (f *fakeEthClient) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeEthClient) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: f.baseFee}, nil
}

func (f *fakeEthClient) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return f.tip, nil
}

func (f *fakeEthClient) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.gas, nil
}

func (f *fakeEthClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	f.receipts[tx.Hash()] = &types.Receipt{
		Status: types.ReceiptStatusSuccessful,
		TxHash: tx.Hash(),
	}
	return nil
}

func (f *fakeEthClient) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if r, ok := f.receipts[txHash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeEthClient) Close() {
	f.closed = true
}

func newTestClient(t *testing.T, fake *fakeEthClient) *Client {
	t.Helper()
	prev := ethclientDialContext
	ethclientDialContext = func(context.Context, string) (EthClient, error) {
		return fake, nil
	}
	t.Cleanup(func() { ethclientDialContext = prev })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	client, err := NewClient(context.Background(), logging.NoLog{}, "http://127.0.0.1:9650/ext/bc/C/rpc", key)
	require.NoError(t, err)
	return client
}

func TestClientSubmit(t *testing.T) {
	require := require.New(t)
	fake := newFakeEthClient()
	client := newTestClient(t, fake)

	chainID, err := client.ChainID(context.Background())
	require.NoError(err)
	require.Equal(int64(43113), chainID.Int64())

	tx, err := client.Submit(context.Background(), TxRequest{Data: []byte{0x60, 0x80}})
	require.NoError(err)
	require.Len(fake.sent, 1)
	require.Nil(tx.To())
	require.Equal(uint64(7), tx.Nonce())
	require.Equal(uint64(100_000), tx.Gas())
	require.Equal(big.NewInt(1_000_000_000), tx.GasTipCap())
	// twice the base fee plus 2.5 gwei
	require.Equal(big.NewInt(52_500_000_000), tx.GasFeeCap())

	sender, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	require.NoError(err)
	require.Equal(client.From(), sender)

	receipt, err := client.Confirm(context.Background(), tx)
	require.NoError(err)
	require.Equal(tx.Hash(), receipt.TxHash)

	client.Close()
	require.True(fake.closed)
}

func TestCalculateTxParamsCapsTip(t *testing.T) {
	require := require.New(t)
	fake := newFakeEthClient()
	fake.baseFee = big.NewInt(1_000_000_000)
	fake.tip = big.NewInt(100_000_000_000)
	client := newTestClient(t, fake)

	gasFeeCap, gasTipCap, _, err := client.CalculateTxParams(context.Background())
	require.NoError(err)
	require.Equal(big.NewInt(4_500_000_000), gasFeeCap)
	require.Equal(gasFeeCap, gasTipCap)
	require.Equal(big.NewInt(100_000_000_000), fake.tip)

	tx, err := client.Submit(context.Background(), TxRequest{Data: []byte{0x60, 0x80}})
	require.NoError(err)
	require.Zero(tx.GasTipCap().Cmp(tx.GasFeeCap()))
}

func TestClientCodeAt(t *testing.T) {
	require := require.New(t)
	fake := newFakeEthClient()
	address := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	fake.code[address] = []byte{0x01}
	client := newTestClient(t, fake)

	code, err := client.CodeAt(context.Background(), address)
	require.NoError(err)
	require.Equal([]byte{0x01}, code)

	code, err = client.CodeAt(context.Background(), common.Address{})
	require.NoError(err)
	require.Empty(code)
}

func TestClientBalance(t *testing.T) {
	require := require.New(t)
	client := newTestClient(t, newFakeEthClient())
	balance, err := client.Balance(context.Background())
	require.NoError(err)
	require.Equal("2000000000000000000", balance.String())
}

func TestNewClientDialFailure(t *testing.T) {
	prev := ethclientDialContext
	ethclientDialContext = func(context.Context, string) (EthClient, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { ethclientDialContext = prev })

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewClient(ctx, logging.NoLog{}, "http://nowhere", key)
	require.ErrorContains(t, err, "failure connecting to http://nowhere")
}

type fakeSubmitter struct {
	status  uint64
	block   bool
	sentReq []TxRequest
}

func (*fakeSubmitter) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (*fakeSubmitter) CodeAt(context.Context, common.Address) ([]byte, error) {
	return nil, nil
}

func (f *fakeSubmitter) Submit(_ context.Context, req TxRequest) (*types.Transaction, error) {
	f.sentReq = append(f.sentReq, req)
	return types.NewTx(&types.DynamicFeeTx{Nonce: uint64(len(f.sentReq)), Data: req.Data}), nil
}

func (f *fakeSubmitter) Confirm(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &types.Receipt{Status: f.status, TxHash: tx.Hash()}, nil
}

func TestSubmitAndConfirm(t *testing.T) {
	tests := []struct {
		name      string
		submitter *fakeSubmitter
		expected  error
	}{
		{
			name:      "success",
			submitter: &fakeSubmitter{status: types.ReceiptStatusSuccessful},
		},
		{
			name:      "reverted",
			submitter: &fakeSubmitter{status: types.ReceiptStatusFailed},
			expected:  clierrors.ErrTxReverted,
		},
		{
			name:      "never mined",
			submitter: &fakeSubmitter{block: true},
			expected:  clierrors.ErrConfirmationTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, receipt, err := SubmitAndConfirm(context.Background(), tt.submitter, TxRequest{}, 20*time.Millisecond)
			require.NotNil(t, tx)
			require.Len(t, tt.submitter.sentReq, 1)
			if tt.expected == nil {
				require.NoError(t, err)
				require.Equal(t, tx.Hash(), receipt.TxHash)
				return
			}
			require.ErrorIs(t, err, tt.expected)
		})
	}
}
