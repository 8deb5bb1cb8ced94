package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
)

type detailFixture struct {
	repo     *fakeDetailRepo
	products *fakeProductRepo
	images   *fakeImagesInfra
	cache    *fakeCacheRepo
	outbox   *fakeOutboxRepo
	uc       *DetailUseCase
}

func newDetailFixture(t *testing.T) *detailFixture {
	t.Helper()

	repo := newFakeDetailRepo()
	products := newFakeProductRepo()
	images := &fakeImagesInfra{}
	cache := newFakeCacheRepo()
	outbox := &fakeOutboxRepo{}

	return &detailFixture{
		repo:     repo,
		products: products,
		images:   images,
		cache:    cache,
		outbox:   outbox,
		uc:       NewDetailUC(repo, products, images, cache, outbox, nopLogger{}),
	}
}

// seedProduct кладёт товар напрямую в фейковый репозиторий и возвращает его id.
func (f *detailFixture) seedProduct(t *testing.T, category domain.Category) string {
	t.Helper()

	id, err := f.products.Create(context.Background(), category, domain.NewProduct("Parent", 100, "http://x/uploads/earphones/p.png"))
	if err != nil {
		t.Fatalf("seed product error = %v", err)
	}
	return id
}

func validDetailReq(category domain.Category, productID string) *CreateDetailReq {
	return &CreateDetailReq{
		Category:    category,
		Name:        "Sony WF-1000XM5",
		Description: "Flagship noise cancelling earphones",
		PriceRaw:    "299.99",
		ProductID:   productID,
		Image:       NewImageUpload([]byte("png-bytes"), "image/png", 9, "x.png"),
		BaseURL:     "http://localhost:8080",
	}
}

func TestDetailCreate_Roundtrip(t *testing.T) {
	f := newDetailFixture(t)
	ctx := context.Background()
	category := earphones(t)
	parentID := f.seedProduct(t, category)

	created, err := f.uc.Create(ctx, validDetailReq(category, parentID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("created record should have an id")
	}
	if created.ProductID != parentID {
		t.Errorf("ProductID = %q, want %q", created.ProductID, parentID)
	}
	if !strings.HasSuffix(created.ImageURL, "/uploads/earphones/x.png") {
		t.Errorf("ImageURL = %q, want suffix /uploads/earphones/x.png", created.ImageURL)
	}

	got, err := f.uc.GetByID(ctx, category, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Description != created.Description {
		t.Errorf("Description = %q, want %q", got.Description, created.Description)
	}
}

func TestDetailCreate_UnresolvedReference(t *testing.T) {
	f := newDetailFixture(t)
	category := earphones(t)

	// Синтаксически корректный, но никому не выданный идентификатор
	req := validDetailReq(category, "64f000000000000000000000")

	_, err := f.uc.Create(context.Background(), req)
	if !errors.Is(err, e.ErrInvalidReference) {
		t.Fatalf("Create() error = %v, want ErrInvalidReference", err)
	}

	if f.repo.createCalls != 0 {
		t.Error("unresolved reference must not write to the store")
	}
	if len(f.images.uploaded) != 0 {
		t.Error("unresolved reference must not upload the image")
	}
}

func TestDetailCreate_ValidationOrder(t *testing.T) {
	category := earphones(t)

	tests := []struct {
		name    string
		mutate  func(f *detailFixture, req *CreateDetailReq)
		wantErr error
	}{
		{
			name: "missing description reported before reference check",
			mutate: func(f *detailFixture, req *CreateDetailReq) {
				req.Description = ""
				req.ProductID = "64f000000000000000000000"
			},
			wantErr: e.ErrMissingFields,
		},
		{
			name: "reference check precedes price parse",
			mutate: func(f *detailFixture, req *CreateDetailReq) {
				req.ProductID = "64f000000000000000000000"
				req.PriceRaw = "abc"
			},
			wantErr: e.ErrInvalidReference,
		},
		{
			name: "price parse precedes extension check",
			mutate: func(f *detailFixture, req *CreateDetailReq) {
				req.PriceRaw = "abc"
				req.Image.Filename = "x.gif"
			},
			wantErr: e.ErrInvalidPrice,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newDetailFixture(t)
			req := validDetailReq(category, f.seedProduct(t, category))
			tc.mutate(f, req)

			_, err := f.uc.Create(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tc.wantErr)
			}
			if f.repo.createCalls != 0 {
				t.Error("rejected create must not reach the store")
			}
		})
	}
}

func TestDetailCreate_InsertFailureCleansUpImage(t *testing.T) {
	f := newDetailFixture(t)
	category := earphones(t)
	f.repo.failCreate = true

	_, err := f.uc.Create(context.Background(), validDetailReq(category, f.seedProduct(t, category)))
	if !errors.Is(err, e.ErrStorageFailure) {
		t.Fatalf("Create() error = %v, want ErrStorageFailure", err)
	}

	if len(f.images.cleaned) != 1 || f.images.cleaned[0] != "earphones/x.png" {
		t.Errorf("cleaned keys = %v, want [earphones/x.png]", f.images.cleaned)
	}
}

func TestDetailUpdate_DoesNotRecheckReference(t *testing.T) {
	f := newDetailFixture(t)
	ctx := context.Background()
	category := earphones(t)
	parentID := f.seedProduct(t, category)

	created, err := f.uc.Create(ctx, validDetailReq(category, parentID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Родитель удалён, но обновление ссылки всё равно проходит
	if _, err := f.products.Delete(ctx, category, parentID); err != nil {
		t.Fatalf("parent delete error = %v", err)
	}

	ghost := "64f000000000000000000000"
	res, err := f.uc.Update(ctx, &UpdateDetailReq{
		Category: category,
		ID:       created.ID,
		Patch:    DetailPatch{ProductID: &ghost},
		BaseURL:  "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !res.Applied {
		t.Error("reference change must report applied=true")
	}
	if res.Detail.ProductID != ghost {
		t.Errorf("ProductID = %q, want %q", res.Detail.ProductID, ghost)
	}
}

func TestDetailDelete_Idempotent(t *testing.T) {
	f := newDetailFixture(t)
	ctx := context.Background()
	category := earphones(t)

	created, err := f.uc.Create(ctx, validDetailReq(category, f.seedProduct(t, category)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.uc.Delete(ctx, category, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := f.uc.Delete(ctx, category, created.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}
