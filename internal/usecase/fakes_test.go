package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

// Фейки уровня репозиториев и инфраструктуры для тестов юзкейсов.

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

var errStoreDown = errors.New("store down")

type fakeProductRepo struct {
	mu          sync.Mutex
	seq         int
	records     map[string]*ProductInfo
	failCreate  bool
	createCalls int
	updateCalls int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{records: make(map[string]*ProductInfo)}
}

func (f *fakeProductRepo) Create(_ context.Context, _ domain.Category, product *domain.Product) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.failCreate {
		return "", errStoreDown
	}

	f.seq++
	id := "id-" + strconv.Itoa(f.seq)
	f.records[id] = NewProductInfo(id, product.Name, product.Price, product.ImageURL)
	return id, nil
}

func (f *fakeProductRepo) GetAll(_ context.Context, _ domain.Category) ([]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]ProductInfo, 0, len(f.records))
	for _, r := range f.records {
		all = append(all, *r)
	}
	return all, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, _ domain.Category, id string) (*ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeProductRepo) Update(_ context.Context, _ domain.Category, id string, patch *ProductPatchFields) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	r, ok := f.records[id]
	if !ok {
		return false, nil
	}

	changed := false
	if patch.Name != nil && *patch.Name != r.Name {
		r.Name = *patch.Name
		changed = true
	}
	if patch.Price != nil && *patch.Price != r.Price {
		r.Price = *patch.Price
		changed = true
	}
	if patch.ImageURL != nil && *patch.ImageURL != r.ImageURL {
		r.ImageURL = *patch.ImageURL
		changed = true
	}
	return changed, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, _ domain.Category, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

func (f *fakeProductRepo) Exists(_ context.Context, _ domain.Category, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.records[id]
	return ok, nil
}

type fakeDetailRepo struct {
	mu          sync.Mutex
	seq         int
	records     map[string]*DetailInfo
	failCreate  bool
	createCalls int
	updateCalls int
}

func newFakeDetailRepo() *fakeDetailRepo {
	return &fakeDetailRepo{records: make(map[string]*DetailInfo)}
}

func (f *fakeDetailRepo) Create(_ context.Context, _ domain.Category, detail *domain.Detail) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++

	if f.failCreate {
		return "", errStoreDown
	}

	f.seq++
	id := "det-" + strconv.Itoa(f.seq)
	f.records[id] = NewDetailInfo(id, detail.Name, detail.Description, detail.Price, detail.ImageURL, detail.ProductID)
	return id, nil
}

func (f *fakeDetailRepo) GetAll(_ context.Context, _ domain.Category) ([]DetailInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]DetailInfo, 0, len(f.records))
	for _, r := range f.records {
		all = append(all, *r)
	}
	return all, nil
}

func (f *fakeDetailRepo) GetByID(_ context.Context, _ domain.Category, id string) (*DetailInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeDetailRepo) Update(_ context.Context, _ domain.Category, id string, patch *DetailPatchFields) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	r, ok := f.records[id]
	if !ok {
		return false, nil
	}

	changed := false
	if patch.Name != nil && *patch.Name != r.Name {
		r.Name = *patch.Name
		changed = true
	}
	if patch.Description != nil && *patch.Description != r.Description {
		r.Description = *patch.Description
		changed = true
	}
	if patch.Price != nil && *patch.Price != r.Price {
		r.Price = *patch.Price
		changed = true
	}
	if patch.ImageURL != nil && *patch.ImageURL != r.ImageURL {
		r.ImageURL = *patch.ImageURL
		changed = true
	}
	if patch.ProductID != nil && *patch.ProductID != r.ProductID {
		r.ProductID = *patch.ProductID
		changed = true
	}
	return changed, nil
}

func (f *fakeDetailRepo) Delete(_ context.Context, _ domain.Category, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[id]; !ok {
		return false, nil
	}
	delete(f.records, id)
	return true, nil
}

type fakeImagesInfra struct {
	mu         sync.Mutex
	uploaded   []string
	cleaned    []string
	failUpload bool
}

func (f *fakeImagesInfra) UploadImage(_ context.Context, req *UploadImageReq) (*UploadImageRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return nil, errStoreDown
	}

	key := req.Category.Slug + "/" + req.Image.Filename
	f.uploaded = append(f.uploaded, key)
	return NewUploadImageRes(key, req.BaseURL+"/uploads/"+key), nil
}

func (f *fakeImagesInfra) CleanupImage(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, key)
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	products map[string]*ProductInfo
	details  map[string]*DetailInfo
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{
		products: make(map[string]*ProductInfo),
		details:  make(map[string]*DetailInfo),
	}
}

func (f *fakeCacheRepo) GetProduct(_ context.Context, collection, id string) (*ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[collection+":"+id], nil
}

func (f *fakeCacheRepo) SetProduct(_ context.Context, collection string, info *ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[collection+":"+info.ID] = info
	return nil
}

func (f *fakeCacheRepo) GetDetail(_ context.Context, collection, id string) (*DetailInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.details[collection+":"+id], nil
}

func (f *fakeCacheRepo) SetDetail(_ context.Context, collection string, info *DetailInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[collection+":"+info.ID] = info
	return nil
}

func (f *fakeCacheRepo) Delete(_ context.Context, collection string, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.products, collection+":"+id)
		delete(f.details, collection+":"+id)
	}
	return nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	seq    int
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	event.ID = "evt-" + strconv.Itoa(f.seq)
	event.Status = Pending
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var batch []*OutboxEvent
	for _, ev := range f.events {
		if len(batch) >= limit {
			break
		}
		if ev.Status == Pending {
			ev.Status = Processing
			batch = append(batch, ev)
		}
	}
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ev := range f.events {
		if ev.ID == id {
			ev.Status = Processed
			return nil
		}
	}
	return errors.New("event not found: " + id)
}

func (f *fakeOutboxRepo) eventTypes() []OutboxEventType {
	f.mu.Lock()
	defer f.mu.Unlock()

	types := make([]OutboxEventType, 0, len(f.events))
	for _, ev := range f.events {
		types = append(types, ev.EventType)
	}
	return types
}
