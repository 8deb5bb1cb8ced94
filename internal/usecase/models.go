package usecase

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// PRODUCT / DETAIL USECASE

// ImageUpload представляет изображение, загруженное через multipart/form-data.
type ImageUpload struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Filename string // оригинальное имя файла
}

// CreateProductReq — запрос на создание товара.
// PriceRaw — цена в исходном текстовом виде; нормализуется юзкейсом.
type CreateProductReq struct {
	Category domain.Category
	Name     string
	PriceRaw string
	Image    *ImageUpload
	BaseURL  string // базовый адрес для построения image_url, выводится из запроса
}

// ProductPatch — частичное обновление товара: nil-поля не трогаются.
type ProductPatch struct {
	Name     *string
	PriceRaw *string
	Image    *ImageUpload
}

// Empty сообщает, что патч не содержит ни одного поля.
func (p *ProductPatch) Empty() bool {
	return p.Name == nil && p.PriceRaw == nil && p.Image == nil
}

type UpdateProductReq struct {
	Category domain.Category
	ID       string
	Patch    ProductPatch
	BaseURL  string
}

// UpdateProductRes — результат обновления. Applied=false означает, что
// хранилище не зафиксировало ни одного изменённого поля.
type UpdateProductRes struct {
	Product *ProductInfo
	Applied bool
}

// ProductInfo — DTO c публичной проекцией товара.
type ProductInfo struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
}

// CreateDetailReq — запрос на создание detail-записи.
// ProductID обязан ссылаться на существующий товар той же категории.
type CreateDetailReq struct {
	Category    domain.Category
	Name        string
	Description string
	PriceRaw    string
	ProductID   string
	Image       *ImageUpload
	BaseURL     string
}

// DetailPatch — частичное обновление detail-записи.
// ProductID при обновлении не перепроверяется на существование.
type DetailPatch struct {
	Name        *string
	Description *string
	PriceRaw    *string
	ProductID   *string
	Image       *ImageUpload
}

func (p *DetailPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceRaw == nil &&
		p.ProductID == nil && p.Image == nil
}

type UpdateDetailReq struct {
	Category domain.Category
	ID       string
	Patch    DetailPatch
	BaseURL  string
}

type UpdateDetailRes struct {
	Detail  *DetailInfo
	Applied bool
}

// DetailInfo — DTO c публичной проекцией detail-записи.
type DetailInfo struct {
	ID          string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	ProductID   string
}

// INFRASTRUCTURE

// UploadImageReq — запрос на сохранение изображения в хранилище.
type UploadImageReq struct {
	Category domain.Category
	Image    *ImageUpload
	BaseURL  string
}

// UploadImageRes — результат сохранения: ключ объекта и публичный URL.
type UploadImageRes struct {
	Key string
	URL string
}

type WriteRawMessageReq struct {
	RecordID string
	Payload  []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	RecordCreated OutboxEventType = "record_created"
	RecordUpdated OutboxEventType = "record_updated"
	RecordDeleted OutboxEventType = "record_deleted"
)

// OutboxEvent — событие изменения каталога, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          string
	EventID     string
	EventType   OutboxEventType
	Collection  string
	RecordID    string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// MAPPERS

func NewProductInfo(id string, name string, price float64, imageURL string) *ProductInfo {
	return &ProductInfo{
		ID:       id,
		Name:     name,
		Price:    price,
		ImageURL: imageURL,
	}
}

func NewDetailInfo(id, name, description string, price float64, imageURL, productID string) *DetailInfo {
	return &DetailInfo{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		ImageURL:    imageURL,
		ProductID:   productID,
	}
}

func NewImageUpload(data []byte, mimeType string, size int64, filename string) *ImageUpload {
	return &ImageUpload{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Filename: filename,
	}
}

func NewUploadImageReq(category domain.Category, image *ImageUpload, baseURL string) *UploadImageReq {
	return &UploadImageReq{
		Category: category,
		Image:    image,
		BaseURL:  baseURL,
	}
}

func NewUploadImageRes(key, url string) *UploadImageRes {
	return &UploadImageRes{
		Key: key,
		URL: url,
	}
}

func NewWriteRawMessageReq(recordID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		RecordID: recordID,
		Payload:  payload,
	}
}

func NewUpdateProductRes(product *ProductInfo, applied bool) *UpdateProductRes {
	return &UpdateProductRes{
		Product: product,
		Applied: applied,
	}
}

func NewUpdateDetailRes(detail *DetailInfo, applied bool) *UpdateDetailRes {
	return &UpdateDetailRes{
		Detail:  detail,
		Applied: applied,
	}
}
