package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "workpaper/pkg/domain"
)

// KafkaPublisher ships audit events to a Kafka topic. One topic carries all
// categories; the record key is the actor id so all of one actor's events
// land in the same partition, preserving per-actor ordering downstream.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

var _ Store = (*KafkaPublisher)(nil)

// NewKafkaPublisher connects to the brokers and ensures the topic exists.
func NewKafkaPublisher(ctx context.Context, brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopic(ctx, 3, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic: %w", err)
	}
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure audit topic %q: %w", topic, resp.Err)
	}

	return &KafkaPublisher{client: client, topic: topic}, nil
}

// Append publishes one event synchronously, satisfying the Store interface
// so the publisher slots in wherever a store does. Callers that must not
// block put the channel-fed Worker in front.
func (p *KafkaPublisher) Append(ctx context.Context, event Event) error {
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.ActorID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByActor is not supported on the Kafka sink; consumers read the topic.
func (p *KafkaPublisher) ListByActor(context.Context, id.IdentityID) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit sink is write-only")
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}
