package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	pkgkafka "github.com/iprofitlabs/lending-service/pkg/kafka"
)

// Notifier implements port.Notifier by handing notification requests to a
// Kafka topic consumed by the platform's notification service.
type Notifier struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewNotifier creates a Kafka-backed notifier.
func NewNotifier(producer *pkgkafka.Producer, topic string) *Notifier {
	return &Notifier{
		producer: producer,
		topic:    topic,
	}
}

type notificationRequest struct {
	UserID     string            `json:"user_id"`
	TemplateID string            `json:"template_id"`
	Vars       map[string]string `json:"vars,omitempty"`
}

// Send enqueues the notification request.
func (n *Notifier) Send(ctx context.Context, userID, templateID string, vars map[string]string) error {
	payload, err := json.Marshal(notificationRequest{
		UserID:     userID,
		TemplateID: templateID,
		Vars:       vars,
	})
	if err != nil {
		return fmt.Errorf("marshal notification request: %w", err)
	}

	if err := n.producer.Publish(ctx, n.topic, pkgkafka.Message{
		Key:   []byte(userID),
		Value: payload,
		Headers: map[string]string{
			"template_id": templateID,
		},
	}); err != nil {
		return fmt.Errorf("publish notification to topic %s: %w", n.topic, err)
	}
	return nil
}
