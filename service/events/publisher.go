package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brojonat/bridgehelp/service/metrics"
	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is where options events are published unless configured otherwise.
const DefaultSubject = "bridgehelp.options"

// Publisher emits options events for downstream analytics.
type Publisher interface {
	// Publish sends a single event. Implementations must not block on the network.
	Publish(ctx context.Context, event *OptionsEvent) error

	// Close flushes pending events and releases the connection.
	Close() error
}

// NATSPublisher publishes options events on a core NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewNATSPublisher connects to NATS and returns a publisher for subject.
// If metrics is nil, no metrics will be recorded.
func NewNATSPublisher(natsURL, subject string, m *metrics.Metrics, logger *slog.Logger) (*NATSPublisher, error) {
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("bridgehelp-publisher"),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(1*time.Second),
		nats.MaxReconnects(-1), // Unlimited reconnects
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher initialized",
		"url", natsURL,
		"subject", subject,
	)

	return &NATSPublisher{
		nc:      nc,
		subject: subject,
		metrics: m,
		logger:  logger,
	}, nil
}

// Publish encodes event as JSON and hands it to the NATS client's outbound buffer.
func (p *NATSPublisher) Publish(ctx context.Context, event *OptionsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	start := time.Now()
	err = p.nc.Publish(p.subject, data)
	duration := time.Since(start).Seconds()

	status := "success"
	if err != nil {
		status = "error"
	}
	if p.metrics != nil {
		p.metrics.RecordNATSPublish(p.subject, status, duration)
	}

	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}

	p.logger.DebugContext(ctx, "published options event",
		"subject", p.subject,
		"request_id", event.RequestID,
		"outcome", event.Outcome,
	)
	return nil
}

// Close drains the connection so buffered events are delivered.
func (p *NATSPublisher) Close() error {
	if err := p.nc.Drain(); err != nil {
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	return nil
}

// NopPublisher discards events. It is used when NATS is not configured.
type NopPublisher struct{}

// Publish drops the event.
func (NopPublisher) Publish(context.Context, *OptionsEvent) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() error { return nil }
