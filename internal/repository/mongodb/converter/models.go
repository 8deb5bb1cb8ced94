package converter

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bson-ключи документов каталога. Ключ внешнего ключа detail-записи зависит
// от категории и берётся из domain.Category.FKField.
const (
	FieldID          = "_id"
	FieldName        = "name"
	FieldPrice       = "price"
	FieldImageURL    = "image_url"
	FieldDescription = "description"
)

// OutboxEventModel представляет документ коллекции outbox_events.
type OutboxEventModel struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	EventID             string             `bson:"event_id"`
	EventType           string             `bson:"event_type"`
	Collection          string             `bson:"collection"`
	RecordID            string             `bson:"record_id"`
	Payload             []byte             `bson:"payload"`
	Status              string             `bson:"status"`
	CreatedAt           time.Time          `bson:"created_at"`
	ProcessingStartedAt *time.Time         `bson:"processing_started_at,omitempty"`
	ProcessedAt         *time.Time         `bson:"processed_at,omitempty"`
}
