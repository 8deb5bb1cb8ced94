package images

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

func TestDiskRepo_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	repo := NewDiskRepo(root)
	ctx := context.Background()

	image := domain.NewImage("earphones/x.png", []byte("png-bytes"), 9, "image/png")

	key, err := repo.Save(ctx, image)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if key != "earphones/x.png" {
		t.Errorf("key = %q, want earphones/x.png", key)
	}

	data, err := os.ReadFile(filepath.Join(root, "earphones", "x.png"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("file content = %q, want png-bytes", data)
	}

	if err := repo.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "earphones", "x.png")); !os.IsNotExist(err) {
		t.Error("file should be gone after Delete()")
	}
}

func TestDiskRepo_SaveOverwrites(t *testing.T) {
	root := t.TempDir()
	repo := NewDiskRepo(root)
	ctx := context.Background()

	first := domain.NewImage("earphones/x.png", []byte("old"), 3, "image/png")
	if _, err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := domain.NewImage("earphones/x.png", []byte("new"), 3, "image/png")
	if _, err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save() overwrite error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "earphones", "x.png"))
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if string(data) != "new" {
		t.Errorf("file content = %q, want new", data)
	}
}

func TestDiskRepo_DeleteMissingIsNoError(t *testing.T) {
	repo := NewDiskRepo(t.TempDir())

	if err := repo.Delete(context.Background(), "earphones/ghost.png"); err != nil {
		t.Fatalf("Delete() of missing file error = %v", err)
	}
}

func TestDiskRepo_URL(t *testing.T) {
	repo := NewDiskRepo("uploads")

	tests := []struct {
		base string
		key  string
		want string
	}{
		{"http://localhost:8080", "earphones/x.png", "http://localhost:8080/uploads/earphones/x.png"},
		{"http://localhost:8080/", "earphones/x.png", "http://localhost:8080/uploads/earphones/x.png"},
		{"https://cdn.example.com", "smartwatches/w.jpg", "https://cdn.example.com/uploads/smartwatches/w.jpg"},
	}

	for _, tc := range tests {
		if got := repo.URL(tc.base, tc.key); got != tc.want {
			t.Errorf("URL(%q, %q) = %q, want %q", tc.base, tc.key, got, tc.want)
		}
	}
}
