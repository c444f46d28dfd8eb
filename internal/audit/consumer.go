package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Handler consumes one decoded audit event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Consumer reads the audit topic within a consumer group and routes each
// event to the handler registered for its category. Unroutable or
// undecodable records are logged and skipped so one bad record never wedges
// the partition.
type Consumer struct {
	client   *kgo.Client
	handlers map[EventCategory]Handler
	fallback Handler
	logger   *slog.Logger
}

type ConsumerOption func(*Consumer)

// WithFallbackHandler receives events whose category has no registered
// handler.
func WithFallbackHandler(h Handler) ConsumerOption {
	return func(c *Consumer) {
		c.fallback = h
	}
}

func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		c.logger = logger
	}
}

func NewConsumer(brokers []string, topic, group string, opts ...ConsumerOption) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumerGroup(group),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	c := &Consumer{
		client:   client,
		handlers: make(map[EventCategory]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Register routes events of the category to the handler. Call before Run.
func (c *Consumer) Register(category EventCategory, handler Handler) {
	c.handlers[category] = handler
}

// Run polls until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "audit fetch error",
				"topic", topic, "partition", partition, "error", err)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.dispatch(ctx, record)
		})
	}
}

func (c *Consumer) dispatch(ctx context.Context, record *kgo.Record) {
	var event Event
	if err := json.Unmarshal(record.Value, &event); err != nil {
		c.logger.WarnContext(ctx, "skipping undecodable audit record",
			"topic", record.Topic, "offset", record.Offset, "error", err)
		return
	}
	category := event.Category
	if category == "" {
		category = AuditEvent(event.Action).Category()
	}

	handler, ok := c.handlers[category]
	if !ok {
		handler = c.fallback
	}
	if handler == nil {
		c.logger.WarnContext(ctx, "no handler for audit category, skipping",
			"category", category, "action", event.Action)
		return
	}
	if err := handler.Handle(ctx, event); err != nil {
		c.logger.ErrorContext(ctx, "audit handler failed",
			"category", category, "action", event.Action, "error", err)
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
