package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// EventPublisher relays events from the outbox to a Publisher.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
	onResult   func(status string)
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     zerolog.Logger
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval in follow mode
	// OnResult is called with "published" or "failed" for every event handled.
	OnResult func(status string)
}

// RelayStats summarizes one relay pass.
type RelayStats struct {
	Fetched   int
	Published int
	Failed    int
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.OnResult == nil {
		cfg.OnResult = func(string) {}
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger.With().Str("component", "outbox_relay").Logger(),
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
		onResult:   cfg.OnResult,
	}
}

// Start relays batches on every tick until the context is cancelled. It backs
// the CLI's follow mode; the API server never runs it.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event relay started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	if _, err := ep.ProcessOnce(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event relay shutting down")
			return ctx.Err()
		case <-ticker.C:
			if _, err := ep.ProcessOnce(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
		}
	}
}

// Drain relays batches until the outbox has no unpublished events left or a
// whole batch fails.
func (ep *EventPublisher) Drain(ctx context.Context) (RelayStats, error) {
	var total RelayStats
	for {
		stats, err := ep.ProcessOnce(ctx)
		total.Fetched += stats.Fetched
		total.Published += stats.Published
		total.Failed += stats.Failed
		if err != nil {
			return total, err
		}
		if stats.Fetched < ep.batchSize || stats.Published == 0 {
			return total, nil
		}
	}
}

// ProcessOnce fetches and publishes a single batch of unpublished events.
func (ep *EventPublisher) ProcessOnce(ctx context.Context) (RelayStats, error) {
	var stats RelayStats

	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return stats, fmt.Errorf("fetch unpublished events: %w", err)
	}

	stats.Fetched = len(events)
	if len(events) == 0 {
		return stats, nil
	}

	ep.logger.Debug().Int("count", len(events)).Msg("processing events")

	for _, event := range events {
		if err := ep.publishEvent(ctx, event); err != nil {
			stats.Failed++
			ep.onResult("failed")
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			// Published but not marked: the event is delivered again on the next
			// pass, so consumers must tolerate duplicates.
			stats.Failed++
			ep.onResult("failed")
			ep.logger.Error().
				Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
			continue
		}

		stats.Published++
		ep.onResult("published")
	}

	return stats, nil
}

// Prune deletes published events older than the retention window.
func (ep *EventPublisher) Prune(ctx context.Context, retention time.Duration) error {
	before := time.Now().UTC().Add(-retention)
	if err := ep.outboxRepo.DeletePublished(ctx, before); err != nil {
		return fmt.Errorf("prune published events: %w", err)
	}
	ep.logger.Info().Time("before", before).Msg("pruned published events")
	return nil
}

func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Msg("publishing event")

	if err := ep.publisher.Publish(ctx, event); err != nil {
		return err
	}

	ep.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Msg("event published")

	return nil
}

// LogPublisher is a simple publisher that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}
