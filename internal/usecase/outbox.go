package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/google/uuid"
)

// outboxPayload — JSON-схема события, публикуемого в Kafka.
type outboxPayload struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	Collection string `json:"collection"`
	RecordID   string `json:"record_id"`
	OccurredAt int64  `json:"occurred_at"`
	Record     any    `json:"record,omitempty"`
}

// NewOutboxEvent собирает событие изменения каталога с JSON-полезной нагрузкой.
// record — публичная проекция записи после изменения, nil для удаления.
func NewOutboxEvent(eventType OutboxEventType, collection, recordID string, record any) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(outboxPayload{
		EventID:    eventID,
		EventType:  string(eventType),
		Collection: collection,
		RecordID:   recordID,
		OccurredAt: time.Now().UnixNano(),
		Record:     record,
	})
	if err != nil {
		return nil, e.Wrap("outbox payload marshal", err)
	}

	return &OutboxEvent{
		EventID:    eventID,
		EventType:  eventType,
		Collection: collection,
		RecordID:   recordID,
		Payload:    payload,
		Status:     Pending,
		CreatedAt:  time.Now(),
	}, nil
}
