package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

type productFixture struct {
	repo   *fakeProductRepo
	images *fakeImagesInfra
	cache  *fakeCacheRepo
	outbox *fakeOutboxRepo
	uc     *ProductUseCase
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	repo := newFakeProductRepo()
	images := &fakeImagesInfra{}
	cache := newFakeCacheRepo()
	outbox := &fakeOutboxRepo{}

	return &productFixture{
		repo:   repo,
		images: images,
		cache:  cache,
		outbox: outbox,
		uc:     NewProductUC(repo, images, cache, outbox, nopLogger{}),
	}
}

func earphones(t *testing.T) domain.Category {
	t.Helper()

	category, ok := domain.CategoryBySlug("earphones")
	if !ok {
		t.Fatal("earphones category must exist")
	}
	return category
}

func validProductReq(category domain.Category) *CreateProductReq {
	return &CreateProductReq{
		Category: category,
		Name:     "Sony WF-1000XM5",
		PriceRaw: "299.99",
		Image:    NewImageUpload([]byte("png-bytes"), "image/png", 9, "x.png"),
		BaseURL:  "http://localhost:8080",
	}
}

func TestProductCreate_Roundtrip(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := earphones(t)

	created, err := f.uc.Create(ctx, validProductReq(category))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("created record should have an id")
	}
	if !strings.HasSuffix(created.ImageURL, "/uploads/earphones/x.png") {
		t.Errorf("ImageURL = %q, want suffix /uploads/earphones/x.png", created.ImageURL)
	}
	if created.Price != 299.99 {
		t.Errorf("Price = %v, want 299.99", created.Price)
	}

	got, err := f.uc.GetByID(ctx, category, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != created.Name || got.Price != created.Price || got.ImageURL != created.ImageURL {
		t.Errorf("GetByID() = %+v, want %+v", got, created)
	}

	types := f.outbox.eventTypes()
	if len(types) != 1 || types[0] != RecordCreated {
		t.Errorf("outbox events = %v, want [record_created]", types)
	}
}

func TestProductCreate_CommaPrice(t *testing.T) {
	f := newProductFixture(t)
	req := validProductReq(earphones(t))
	req.PriceRaw = "1,299.50"

	created, err := f.uc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Price != 1299.50 {
		t.Errorf("Price = %v, want 1299.50", created.Price)
	}
}

func TestProductCreate_ValidationOrder(t *testing.T) {
	category := earphones(t)

	tests := []struct {
		name    string
		mutate  func(req *CreateProductReq)
		wantErr error
	}{
		{
			name: "missing name reported before bad price",
			mutate: func(req *CreateProductReq) {
				req.Name = "  "
				req.PriceRaw = "abc"
			},
			wantErr: e.ErrMissingFields,
		},
		{
			name: "missing image reported as missing fields",
			mutate: func(req *CreateProductReq) {
				req.Image = nil
			},
			wantErr: e.ErrMissingFields,
		},
		{
			name: "bad price reported before bad extension",
			mutate: func(req *CreateProductReq) {
				req.PriceRaw = "abc"
				req.Image.Filename = "x.gif"
			},
			wantErr: e.ErrInvalidPrice,
		},
		{
			name: "price precision rejected",
			mutate: func(req *CreateProductReq) {
				req.PriceRaw = "10.999"
			},
			wantErr: e.ErrPricePrecision,
		},
		{
			name: "bad extension rejected last",
			mutate: func(req *CreateProductReq) {
				req.Image.Filename = "x.gif"
			},
			wantErr: e.ErrInvalidImageType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newProductFixture(t)
			req := validProductReq(category)
			tc.mutate(req)

			_, err := f.uc.Create(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tc.wantErr)
			}
			if f.repo.createCalls != 0 {
				t.Error("rejected create must not reach the store")
			}
			if len(f.images.uploaded) != 0 {
				t.Error("rejected create must not upload the image")
			}
		})
	}
}

func TestProductCreate_InsertFailureCleansUpImage(t *testing.T) {
	f := newProductFixture(t)
	f.repo.failCreate = true

	_, err := f.uc.Create(context.Background(), validProductReq(earphones(t)))
	if !errors.Is(err, e.ErrStorageFailure) {
		t.Fatalf("Create() error = %v, want ErrStorageFailure", err)
	}

	if len(f.images.cleaned) != 1 || f.images.cleaned[0] != "earphones/x.png" {
		t.Errorf("cleaned keys = %v, want [earphones/x.png]", f.images.cleaned)
	}
	if len(f.outbox.eventTypes()) != 0 {
		t.Error("failed create must not enqueue an event")
	}
}

func TestProductGetByID_NotFound(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.uc.GetByID(context.Background(), earphones(t), "64f000000000000000000000")
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestProductGetByID_CacheHit(t *testing.T) {
	f := newProductFixture(t)
	category := earphones(t)

	cached := NewProductInfo("cached-1", "Cached", 10, "http://x/uploads/earphones/c.png")
	if err := f.cache.SetProduct(context.Background(), category.Collection(), cached); err != nil {
		t.Fatalf("SetProduct() error = %v", err)
	}

	// Записи нет в репозитории: ответ может прийти только из кэша
	got, err := f.uc.GetByID(context.Background(), category, "cached-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Cached" {
		t.Errorf("Name = %q, want Cached", got.Name)
	}
}

func TestProductUpdate_EmptyPatch(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := earphones(t)

	created, err := f.uc.Create(ctx, validProductReq(category))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	res, err := f.uc.Update(ctx, &UpdateProductReq{
		Category: category,
		ID:       created.ID,
		Patch:    ProductPatch{},
		BaseURL:  "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if res.Applied {
		t.Error("empty patch must report applied=false")
	}
	if f.repo.updateCalls != 0 {
		t.Error("empty patch must not reach the store")
	}
	if res.Product == nil || res.Product.ID != created.ID {
		t.Errorf("Update() must still return the record, got %+v", res.Product)
	}
}

func TestProductUpdate_ChangesPrice(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := earphones(t)

	created, err := f.uc.Create(ctx, validProductReq(category))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newPrice := "349.00"
	res, err := f.uc.Update(ctx, &UpdateProductReq{
		Category: category,
		ID:       created.ID,
		Patch:    ProductPatch{PriceRaw: &newPrice},
		BaseURL:  "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !res.Applied {
		t.Error("price change must report applied=true")
	}
	if res.Product.Price != 349.00 {
		t.Errorf("Price = %v, want 349.00", res.Product.Price)
	}

	types := f.outbox.eventTypes()
	if len(types) != 2 || types[1] != RecordUpdated {
		t.Errorf("outbox events = %v, want [record_created record_updated]", types)
	}
}

func TestProductUpdate_NotFound(t *testing.T) {
	f := newProductFixture(t)
	name := "New name"

	_, err := f.uc.Update(context.Background(), &UpdateProductReq{
		Category: earphones(t),
		ID:       "missing",
		Patch:    ProductPatch{Name: &name},
	})
	if !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestProductDelete_Idempotent(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := earphones(t)

	created, err := f.uc.Create(ctx, validProductReq(category))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.uc.Delete(ctx, category, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Повторное удаление того же идентификатора — уже "не найдено"
	if err := f.uc.Delete(ctx, category, created.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}

	if _, err := f.uc.GetByID(ctx, category, created.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("GetByID() after delete error = %v, want ErrNotFound", err)
	}

	types := f.outbox.eventTypes()
	if len(types) != 2 || types[1] != RecordDeleted {
		t.Errorf("outbox events = %v, want [record_created record_deleted]", types)
	}
}
