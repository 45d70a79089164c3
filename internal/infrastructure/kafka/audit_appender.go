package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iprofitlabs/lending-service/internal/domain/port"
	pkgkafka "github.com/iprofitlabs/lending-service/pkg/kafka"
)

// AuditAppender implements port.AuditLogger by appending entries to a Kafka
// topic. The audit trail is write-only from this service; a downstream
// consumer owns retention and querying.
type AuditAppender struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewAuditAppender creates an appender targeting the given producer and topic.
func NewAuditAppender(producer *pkgkafka.Producer, topic string) *AuditAppender {
	return &AuditAppender{
		producer: producer,
		topic:    topic,
	}
}

type auditRecord struct {
	Actor      string            `json:"actor"`
	Action     string            `json:"action"`
	LoanID     string            `json:"loan_id,omitempty"`
	UserID     string            `json:"user_id,omitempty"`
	Detail     map[string]string `json:"detail,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Append writes one audit entry, keyed by loan ID when present so the trail
// of one loan stays ordered.
func (a *AuditAppender) Append(ctx context.Context, entry port.AuditEntry) error {
	payload, err := json.Marshal(auditRecord{
		Actor:      entry.Actor,
		Action:     entry.Action,
		LoanID:     entry.LoanID,
		UserID:     entry.UserID,
		Detail:     entry.Detail,
		OccurredAt: entry.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	key := entry.LoanID
	if key == "" {
		key = entry.UserID
	}

	if err := a.producer.Publish(ctx, a.topic, pkgkafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: map[string]string{
			"action": entry.Action,
		},
	}); err != nil {
		return fmt.Errorf("publish audit entry to topic %s: %w", a.topic, err)
	}
	return nil
}
