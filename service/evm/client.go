package evm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/brojonat/bridgehelp/service/metrics"
	"github.com/brojonat/bridgehelp/service/support"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// Network binds a source-network name (e.g. "rsk-mainnet") to its RPC client.
type Network struct {
	Name string
	RPC  RPCClient
}

type networkClient struct {
	rpc     RPCClient
	limiter *rate.Limiter
}

// Resolver looks up bridge transactions on RSK and Ethereum networks.
// It implements support.TxResolver.
type Resolver struct {
	networks map[string]*networkClient
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewResolver creates a Resolver over the given networks.
// ratePerSecond caps outbound RPC calls per network; zero or less disables the cap.
// If metrics is nil, no metrics will be recorded.
func NewResolver(networks []Network, ratePerSecond float64, m *metrics.Metrics, logger *slog.Logger) *Resolver {
	limit := rate.Inf
	burst := 0
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(1, int(ratePerSecond))
	}

	clients := make(map[string]*networkClient, len(networks))
	for _, n := range networks {
		clients[n.Name] = &networkClient{
			rpc:     n.RPC,
			limiter: rate.NewLimiter(limit, burst),
		}
	}

	return &Resolver{
		networks: clients,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ParseTxHash checks that s is a 0x-prefixed, 32-byte hex hash.
func ParseTxHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q: %w", s, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid transaction hash %q: want %d bytes, got %d", s, common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

// ResolveTransaction fetches the transaction, its sender and the time it was mined.
// Pending transactions resolve with a zero age.
func (r *Resolver) ResolveTransaction(ctx context.Context, network, txHash string) (*support.TransactionInfo, error) {
	nc, ok := r.networks[network]
	if !ok {
		return nil, fmt.Errorf("no RPC endpoint configured for network %q", network)
	}

	hash, err := ParseTxHash(txHash)
	if err != nil {
		return nil, err
	}

	var (
		tx      *types.Transaction
		pending bool
		chainID *big.Int
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		return r.call(ctx, nc, network, "eth_getTransactionByHash", func(ctx context.Context) error {
			var err error
			tx, pending, err = nc.rpc.TransactionByHash(ctx, hash)
			if errors.Is(err, ethereum.NotFound) {
				return fmt.Errorf("transaction %s not found on %s", hash.Hex(), network)
			}
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return r.call(ctx, nc, network, "eth_chainId", func(ctx context.Context) error {
			var err error
			chainID, err = nc.rpc.ChainID(ctx)
			return err
		})
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	from, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover sender: %w", err)
	}

	info := &support.TransactionInfo{
		Tx: support.TxDetails{
			Hash:    hash.Hex(),
			From:    from.Hex(),
			Pending: pending,
		},
	}
	if tx.To() != nil {
		info.Tx.To = tx.To().Hex()
	}

	if pending {
		r.logger.DebugContext(ctx, "transaction is pending", "network", network, "tx_hash", hash.Hex())
		return info, nil
	}

	var receipt *types.Receipt
	err = r.call(ctx, nc, network, "eth_getTransactionReceipt", func(ctx context.Context) error {
		var err error
		receipt, err = nc.rpc.TransactionReceipt(ctx, hash)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction receipt: %w", err)
	}

	var header *types.Header
	err = r.call(ctx, nc, network, "eth_getBlockByNumber", func(ctx context.Context) error {
		var err error
		header, err = nc.rpc.HeaderByNumber(ctx, receipt.BlockNumber)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get block %s: %w", receipt.BlockNumber, err)
	}

	blockTime := time.Unix(int64(header.Time), 0).UTC()
	age := r.now().Sub(blockTime)
	if age < 0 {
		age = 0
	}

	info.Tx.BlockNumber = receipt.BlockNumber.Uint64()
	info.Meta = support.TxMeta{
		BlockTime: blockTime,
		TxAge:     age,
	}

	if r.metrics != nil {
		r.metrics.RecordTxAge(network, age.Seconds())
	}

	return info, nil
}

// call waits for the network's rate limiter, runs fn and records metrics.
func (r *Resolver) call(ctx context.Context, nc *networkClient, network, method string, fn func(context.Context) error) error {
	waitStart := time.Now()
	if err := nc.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if r.metrics != nil {
		r.metrics.RecordLimiterWait(network, time.Since(waitStart).Seconds())
	}

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
		r.logger.DebugContext(ctx, "rpc call failed",
			"network", network,
			"method", method,
			"error", err,
		)
	}
	if r.metrics != nil {
		r.metrics.RecordRPCCall(method, status, network, duration)
	}

	return err
}
