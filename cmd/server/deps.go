package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/bridgehelp/service/catalog"
	"github.com/brojonat/bridgehelp/service/config"
	"github.com/brojonat/bridgehelp/service/events"
	"github.com/brojonat/bridgehelp/service/evm"
	"github.com/brojonat/bridgehelp/service/metrics"
	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jackc/pgx/v5/pgxpool"
)

const startupRetryWindow = 30 * time.Second

// newResolver dials one RPC client per configured network.
// The returned func closes every client.
func newResolver(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*evm.Resolver, func(), error) {
	var (
		networks []evm.Network
		clients  []*ethclient.Client
	)
	closeAll := func() {
		for _, c := range clients {
			c.Close()
		}
	}

	for _, name := range cfg.Networks() {
		rpcURL := cfg.RPCURLs[name]
		client, err := evm.Dial(ctx, rpcURL)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		clients = append(clients, client)
		networks = append(networks, evm.Network{Name: name, RPC: client})
		logger.Info("initialized RPC client", "network", name, "endpoint", evm.Redact(rpcURL))
	}

	return evm.NewResolver(networks, cfg.RPCRateLimit, m, logger), closeAll, nil
}

// loadCatalog builds the catalog snapshot from Postgres, a YAML file, or the embedded default.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	var (
		rules  []catalog.Rule
		source string
		err    error
	)

	switch {
	case cfg.CatalogDatabaseURL != "":
		source = "database"
		rules, err = loadCatalogFromDB(ctx, cfg.CatalogDatabaseURL, logger)
	case cfg.CatalogPath != "":
		source = cfg.CatalogPath
		rules, err = catalog.LoadFile(cfg.CatalogPath)
	default:
		source = "embedded"
		rules = catalog.DefaultRules()
	}
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(rules)
	if err != nil {
		return nil, err
	}

	logger.Info("support catalog loaded", "source", source, "rules", len(rules))
	return cat, nil
}

func loadCatalogFromDB(ctx context.Context, databaseURL string, logger *slog.Logger) ([]catalog.Rule, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	defer pool.Close()

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, pool.Ping(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(startupRetryWindow),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("database not ready, retrying", "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return catalog.NewStore(pool).Load(ctx)
}

// connectPublisher connects to NATS, retrying while the broker comes up.
func connectPublisher(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) (*events.NATSPublisher, error) {
	return backoff.Retry(ctx, func() (*events.NATSPublisher, error) {
		return events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject, m, logger)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(startupRetryWindow),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn("NATS not ready, retrying", "error", err, "retry_in", next)
		}),
	)
}
