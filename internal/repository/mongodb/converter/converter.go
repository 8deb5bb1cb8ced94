package converter

import (
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogConverter преобразует документы MongoDB в DTO каталога и обратно.
// Документы представлены как bson.M: имя поля внешнего ключа detail-записи
// зависит от категории, статической модели для него нет.
type CatalogConverter struct{}

func NewCatalogConverter() CatalogConverter {
	return CatalogConverter{}
}

// ProductToDoc собирает документ товара для вставки.
func (CatalogConverter) ProductToDoc(p *domain.Product) bson.M {
	return bson.M{
		FieldName:     p.Name,
		FieldPrice:    p.Price,
		FieldImageURL: p.ImageURL,
	}
}

// DetailToDoc собирает документ detail-записи для вставки.
func (CatalogConverter) DetailToDoc(d *domain.Detail, fkField string) bson.M {
	return bson.M{
		FieldName:        d.Name,
		FieldDescription: d.Description,
		FieldPrice:       d.Price,
		FieldImageURL:    d.ImageURL,
		fkField:          d.ProductID,
	}
}

// ToProductInfo извлекает публичную проекцию товара из документа.
func (CatalogConverter) ToProductInfo(doc bson.M) *usecase.ProductInfo {
	return usecase.NewProductInfo(
		docID(doc),
		asString(doc[FieldName]),
		asFloat(doc[FieldPrice]),
		asString(doc[FieldImageURL]),
	)
}

// ToDetailInfo извлекает публичную проекцию detail-записи из документа.
func (CatalogConverter) ToDetailInfo(doc bson.M, fkField string) *usecase.DetailInfo {
	return usecase.NewDetailInfo(
		docID(doc),
		asString(doc[FieldName]),
		asString(doc[FieldDescription]),
		asFloat(doc[FieldPrice]),
		asString(doc[FieldImageURL]),
		asString(doc[fkField]),
	)
}

// ProductPatchToDoc собирает $set-документ частичного обновления товара.
func (CatalogConverter) ProductPatchToDoc(fields *usecase.ProductPatchFields) bson.M {
	set := bson.M{}
	if fields.Name != nil {
		set[FieldName] = *fields.Name
	}
	if fields.Price != nil {
		set[FieldPrice] = *fields.Price
	}
	if fields.ImageURL != nil {
		set[FieldImageURL] = *fields.ImageURL
	}
	return set
}

// DetailPatchToDoc собирает $set-документ частичного обновления detail-записи.
func (CatalogConverter) DetailPatchToDoc(fields *usecase.DetailPatchFields, fkField string) bson.M {
	set := bson.M{}
	if fields.Name != nil {
		set[FieldName] = *fields.Name
	}
	if fields.Description != nil {
		set[FieldDescription] = *fields.Description
	}
	if fields.Price != nil {
		set[FieldPrice] = *fields.Price
	}
	if fields.ImageURL != nil {
		set[FieldImageURL] = *fields.ImageURL
	}
	if fields.ProductID != nil {
		set[fkField] = *fields.ProductID
	}
	return set
}

// ToOutboxModel преобразует событие outbox в документ.
func (CatalogConverter) ToOutboxModel(event *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		EventID:     event.EventID,
		EventType:   string(event.EventType),
		Collection:  event.Collection,
		RecordID:    event.RecordID,
		Payload:     event.Payload,
		Status:      string(event.Status),
		CreatedAt:   event.CreatedAt,
		ProcessedAt: event.ProcessedAt,
	}
}

// ToOutboxEntity преобразует документ outbox в сущность usecase-слоя.
func (CatalogConverter) ToOutboxEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID.Hex(),
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		Collection:  model.Collection,
		RecordID:    model.RecordID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

// ToArrOutboxEntity преобразует срез документов outbox.
func (c CatalogConverter) ToArrOutboxEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToOutboxEntity(model))
	}
	return result
}

// docID возвращает hex-представление _id документа.
func docID(doc bson.M) string {
	if oid, ok := doc[FieldID].(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return asString(doc[FieldID])
}

// asFloat приводит числовое значение bson к float64.
// Числа без дробной части Mongo может вернуть как int32/int64.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
