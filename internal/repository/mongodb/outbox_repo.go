package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const outboxCollection = "outbox_events"

// OutboxEventRepo хранит события изменения каталога в отдельной коллекции.
// Кросс-коллекционных транзакций нет: запись события — отдельная операция
// после успешной записи данных.
type OutboxEventRepo struct {
	db   *mongo.Database
	conv converter.CatalogConverter
}

func NewOutboxEventRepo(db *mongo.Database, conv converter.CatalogConverter) *OutboxEventRepo {
	return &OutboxEventRepo{
		db:   db,
		conv: conv,
	}
}

// Create вставляет событие со статусом pending.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	model := o.conv.ToOutboxModel(event)

	res, err := o.db.Collection(outboxCollection).InsertOne(ctx, model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		model.ID = oid
	}

	return o.conv.ToOutboxEntity(model), nil
}

// GetAndMarkAsProcessing атомарно (по одному документу) забирает до limit
// pending-событий в порядке создания, переводя их в processing. Несколько
// воркеров не получат одно событие дважды: FindOneAndUpdate атомарен.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetReturnDocument(options.After)

	filter := bson.M{"status": string(usecase.Pending)}
	update := bson.M{"$set": bson.M{
		"status":                string(usecase.Processing),
		"processing_started_at": time.Now(),
	}}

	var models []*converter.OutboxEventModel
	for i := 0; i < limit; i++ {
		var model converter.OutboxEventModel
		err := o.db.Collection(outboxCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&model)
		if errors.Is(err, mongo.ErrNoDocuments) {
			break
		}
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	return o.conv.ToArrOutboxEntity(models), nil
}

// MarkAsProcessed помечает событие обработанным. Событие, уже обработанное
// другим воркером либо отсутствующее, не считается ошибкой.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	filter := bson.M{
		converter.FieldID: oid,
		"status":          string(usecase.Processing),
	}
	update := bson.M{"$set": bson.M{
		"status":       string(usecase.Processed),
		"processed_at": time.Now(),
	}}

	if _, err := o.db.Collection(outboxCollection).UpdateOne(ctx, filter, update); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
