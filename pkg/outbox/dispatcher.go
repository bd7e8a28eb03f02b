package outbox

import (
	"context"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/logger"
)

// TopicPublisher is the publish surface of a Pub/Sub topic handle.
type TopicPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) *pubsub.PublishResult
}

// Dispatcher drains staged events to Pub/Sub on a fixed poll interval.
// Events that exhaust their publish attempts are left in place for
// operator inspection; they are never deleted automatically.
type Dispatcher struct {
	repo        *Repository
	publisher   TopicPublisher
	logg        *logger.Logger
	batchSize   int
	pollEvery   time.Duration
	maxAttempts int
}

// NewDispatcher wires the dispatcher from configuration.
func NewDispatcher(repo *Repository, publisher TopicPublisher, cfg config.OutboxConfig, logg *logger.Logger) *Dispatcher {
	pollEvery := time.Duration(cfg.PollIntervalMS) * time.Millisecond
	if pollEvery <= 0 {
		pollEvery = 500 * time.Millisecond
	}
	return &Dispatcher{
		repo:        repo,
		publisher:   publisher,
		logg:        logg,
		batchSize:   cfg.BatchSize,
		pollEvery:   pollEvery,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.DrainOnce(ctx); err != nil && d.logg != nil {
				d.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce publishes one batch of staged events.
func (d *Dispatcher) DrainOnce(ctx context.Context) error {
	events, err := d.repo.FetchUnpublished(ctx, d.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if d.maxAttempts > 0 && event.Attempts >= d.maxAttempts {
			continue
		}

		result := d.publisher.Publish(ctx, &pubsub.Message{
			Data: []byte(event.Payload),
			Attributes: map[string]string{
				"event_type":     string(event.EventType),
				"reservation_id": event.AggregateID,
			},
		})

		if _, err := result.Get(ctx); err != nil {
			if markErr := d.repo.MarkFailed(ctx, event.ID, err); markErr != nil && d.logg != nil {
				d.logg.Error(ctx, "marking outbox event failed", markErr)
			}
			continue
		}

		if err := d.repo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil && d.logg != nil {
			d.logg.Error(ctx, "marking outbox event published", err)
		}
	}
	return nil
}
