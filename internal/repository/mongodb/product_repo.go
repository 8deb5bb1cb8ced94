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

// publicProjection ограничивает выдачу публичными полями записи.
// Поле внешнего ключа detail-записи добавляется по месту.
func publicProjection(extra ...string) bson.M {
	projection := bson.M{
		converter.FieldName:     1,
		converter.FieldPrice:    1,
		converter.FieldImageURL: 1,
	}
	for _, field := range extra {
		projection[field] = 1
	}
	return projection
}

// ProductRepo реализует репозиторий товаров поверх MongoDB.
// Коллекция выбирается по категории, по одной на категорию.
type ProductRepo struct {
	db   *mongo.Database
	conv converter.CatalogConverter
}

func NewProductRepo(db *mongo.Database, conv converter.CatalogConverter) *ProductRepo {
	return &ProductRepo{
		db:   db,
		conv: conv,
	}
}

// Create вставляет документ товара и возвращает присвоенный идентификатор.
func (p *ProductRepo) Create(ctx context.Context, category domain.Category, product *domain.Product) (string, error) {
	res, err := p.db.Collection(category.Collection()).InsertOne(ctx, p.conv.ProductToDoc(product))
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", e.Wrap(whereami.WhereAmI(), e.ErrStorageFailure)
	}

	return oid.Hex(), nil
}

// GetAll возвращает публичные проекции всех товаров категории.
// Пустая коллекция — пустой срез без ошибки.
func (p *ProductRepo) GetAll(ctx context.Context, category domain.Category) ([]usecase.ProductInfo, error) {
	opts := options.Find().SetProjection(publicProjection())

	cursor, err := p.db.Collection(category.Collection()).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]usecase.ProductInfo, 0, len(docs))
	for _, doc := range docs {
		result = append(result, *p.conv.ToProductInfo(doc))
	}

	return result, nil
}

// GetByID возвращает товар или (nil, nil), если записи нет.
// Структурно некорректный идентификатор приравнивается к отсутствию записи.
func (p *ProductRepo) GetByID(ctx context.Context, category domain.Category, id string) (*usecase.ProductInfo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	opts := options.FindOne().SetProjection(publicProjection())

	var doc bson.M
	err = p.db.Collection(category.Collection()).FindOne(ctx, bson.M{converter.FieldID: oid}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToProductInfo(doc), nil
}

// Update применяет $set по переданным полям. Возвращает true, только если
// хранилище зафиксировало хотя бы одно фактически изменённое поле:
// обновление в идентичные значения даёт false.
func (p *ProductRepo) Update(ctx context.Context, category domain.Category, id string, patch *usecase.ProductPatchFields) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	set := p.conv.ProductPatchToDoc(patch)
	if len(set) == 0 {
		return false, nil
	}

	res, err := p.db.Collection(category.Collection()).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.ModifiedCount > 0, nil
}

// Delete удаляет документ. true — только если документ действительно был удалён.
func (p *ProductRepo) Delete(ctx context.Context, category domain.Category, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	res, err := p.db.Collection(category.Collection()).DeleteOne(ctx, bson.M{converter.FieldID: oid})
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return res.DeletedCount > 0, nil
}

// Exists проверяет существование товара. Некорректный идентификатор — false.
func (p *ProductRepo) Exists(ctx context.Context, category domain.Category, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	err = p.db.Collection(category.Collection()).
		FindOne(ctx, bson.M{converter.FieldID: oid}, options.FindOne().SetProjection(bson.M{converter.FieldID: 1})).
		Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return true, nil
}
