package mongodb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/repository/mongodb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DetailRepo реализует репозиторий detail-записей поверх MongoDB.
// Поле внешнего ключа в документах называется по категории (earphone_id и т.п.).
type DetailRepo struct {
	db   *mongo.Database
	conv converter.CatalogConverter
}

func NewDetailRepo(db *mongo.Database, conv converter.CatalogConverter) *DetailRepo {
	return &DetailRepo{
		db:   db,
		conv: conv,
	}
}

// Create вставляет документ detail-записи и возвращает присвоенный идентификатор.
// Существование внешнего ключа здесь не проверяется — это дело usecase-слоя.
func (d *DetailRepo) Create(ctx context.Context, category domain.Category, detail *domain.Detail) (string, error) {
	doc := d.conv.DetailToDoc(detail, category.FKField)

	res, err := d.db.Collection(category.DetailCollection).InsertOne(ctx, doc)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrStorageFailure)
	}

	return oid.Hex(), nil
}

// GetAll возвращает публичные проекции всех detail-записей категории.
func (d *DetailRepo) GetAll(ctx context.Context, category domain.Category) ([]usecase.DetailInfo, error) {
	opts := options.Find().SetProjection(publicProjection(converter.FieldDescription, category.FKField))

	cursor, err := d.db.Collection(category.DetailCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.DetailInfo, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *d.conv.ToDetailInfo(doc, category.FKField))
	}

	return result, nil
}

// GetByID возвращает detail-запись или (nil, nil), если записи нет либо
// идентификатор структурно некорректен.
func (d *DetailRepo) GetByID(ctx context.Context, category domain.Category, id string) (*usecase.DetailInfo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	opts := options.FindOne().SetProjection(publicProjection(converter.FieldDescription, category.FKField))

	var doc bson.M
	err = d.db.Collection(category.DetailCollection).FindOne(ctx, bson.M{converter.FieldID: oid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return d.conv.ToDetailInfo(doc, category.FKField), nil
}

// Update применяет $set по переданным полям. Семантика как у товаров:
// true — только при фактически изменённых полях.
func (d *DetailRepo) Update(ctx context.Context, category domain.Category, id string, patch *usecase.DetailPatchFields) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	set := d.conv.DetailPatchToDoc(patch, category.FKField)
	if len(set) == 0 {
		return false, nil
	}

	res, err := d.db.Collection(category.DetailCollection).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.ModifiedCount > 0, nil
}

// Delete удаляет detail-запись. true — только если документ был удалён.
func (d *DetailRepo) Delete(ctx context.Context, category domain.Category, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := d.db.Collection(category.DetailCollection).DeleteOne(ctx, bson.M{converter.FieldID: oid})
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.DeletedCount > 0, nil
}
