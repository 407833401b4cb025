package support

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ContextResolver turns validated Params into a ResolutionContext by looking
// up the transaction on its source network. Every call hits the resolver;
// transaction age changes over time so nothing is cached.
type ContextResolver struct {
	resolver TxResolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewContextResolver creates a ContextResolver.
// A zero timeout leaves the lookup bounded only by the caller's context.
func NewContextResolver(resolver TxResolver, timeout time.Duration, logger *slog.Logger) *ContextResolver {
	return &ContextResolver{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve performs the single transaction lookup for a request.
// Any failure is logged and returned as a *ResolutionError; there is no retry.
func (r *ContextResolver) Resolve(ctx context.Context, p Params) (ResolutionContext, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	info, err := r.resolver.ResolveTransaction(ctx, p.fromNetwork, p.txHash)
	if err == nil && info == nil {
		err = errors.New("no transaction info returned")
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("transaction lookup timed out: %w", err)
		}
		r.logger.ErrorContext(ctx, "failed to resolve transaction",
			"from_network", p.fromNetwork,
			"tx_hash", p.txHash,
			"error", err,
		)
		return ResolutionContext{}, &ResolutionError{
			Network: p.fromNetwork,
			TxHash:  p.txHash,
			Err:     err,
		}
	}

	r.logger.DebugContext(ctx, "transaction resolved",
		"from_network", p.fromNetwork,
		"tx_hash", p.txHash,
		"tx_from", info.Tx.From,
		"block_number", info.Tx.BlockNumber,
		"tx_age", info.Meta.TxAge,
	)

	return ResolutionContext{
		FromNetwork: p.fromNetwork,
		TxHash:      p.txHash,
		WalletName:  p.walletName,
		TxAge:       int64(info.Meta.TxAge / time.Second),
		TxFrom:      info.Tx.From,
	}, nil
}

// Selector hands a resolved context to the catalog.
type Selector struct {
	catalog Catalog
}

// NewSelector creates a Selector backed by the given catalog.
func NewSelector(catalog Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Select returns the catalog's options for rc unchanged.
func (s *Selector) Select(rc ResolutionContext) Options {
	return s.catalog.OptionsRendered(rc)
}

// HTML renders options through the catalog.
func (s *Selector) HTML(opts Options) (string, error) {
	return s.catalog.OptionsHTML(opts)
}
