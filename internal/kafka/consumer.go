package kafka

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/kafka/registry"

	// Blank import triggers init() in each handler file, registering all
	// event handlers into the registry.
	_ "github.com/peerconnect/backend/internal/kafka/handlers"
)

// Consumer wraps the franz-go client and executes ingested events.
type Consumer struct {
	client   *kgo.Client
	notifier *application.Notifier
	subs     *application.SubscriptionService
}

// New creates a Consumer with the given brokers, group ID, and topics.
func New(brokers []string, groupID string, topics []string, notifier *application.Notifier, subs *application.SubscriptionService) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, notifier: notifier, subs: subs}, nil
}

// Start polls the broker and processes records until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			c.process(ctx, r)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}

// process routes one record through the registry and executes the result.
func (c *Consumer) process(ctx context.Context, r *kgo.Record) {
	log.Debug().
		Str("topic", r.Topic).
		Str("key", string(r.Key)).
		Msg("processing kafka record")

	// notification-commands doesn't use eventType routing
	ev := registry.DispatchDirect(r.Topic, r.Value)
	if ev == nil {
		ev = registry.Dispatch(r.Topic, r.Value)
	}
	if ev == nil {
		log.Debug().Str("topic", r.Topic).Msg("no handler matched, skipping")
		return
	}

	switch {
	case ev.Enrollment != nil:
		e := ev.Enrollment
		if err := c.subs.GrantEnrollment(ctx, e.StudentID, e.ModuleID, e.SourceEventID); err != nil {
			log.Error().Err(err).
				Str("topic", r.Topic).
				Int64("student_id", e.StudentID).
				Int64("module_id", e.ModuleID).
				Msg("failed to apply enrollment grant from kafka event")
		}
	case ev.Notification != nil:
		c.notifier.Notify(ctx, *ev.Notification)
	}
}
