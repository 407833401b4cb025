package evm

import (
	"context"
	"fmt"
	"math/big"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// RPCClient is the subset of JSON-RPC calls the resolver needs.
// *ethclient.Client satisfies it; tests substitute a mock.
type RPCClient interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to an EVM JSON-RPC endpoint (RSK and Ethereum both speak it).
// For hosted endpoints that require API keys, include the key in the URL.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", Redact(rpcURL), err)
	}
	return client, nil
}

// Redact keeps only scheme and host so API keys embedded in
// paths or query strings never reach logs.
func Redact(rpcURL string) string {
	u, err := url.Parse(rpcURL)
	if err != nil || u.Host == "" {
		return "<rpc endpoint>"
	}
	return u.Scheme + "://" + u.Host
}
