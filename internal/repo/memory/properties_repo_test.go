package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/truehome/backend/internal/domain/property"
	"github.com/truehome/backend/internal/repo/memory"
)

func TestPropertiesCreateDefaults(t *testing.T) {
	repo := memory.NewPropertiesRepo()
	ctx := context.Background()

	p, err := repo.Create(ctx, property.CreatePropertyRequest{
		Title:    "Sea View Flat",
		Type:     "apartment",
		Price:    1200,
		Location: "Accra",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if p.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if p.Currency != "USD" {
		t.Fatalf("expected USD default, got %q", p.Currency)
	}
	if !p.IsAvailable {
		t.Fatal("new listings must start available")
	}
	if p.ImageURLs == nil || p.Amenities == nil {
		t.Fatal("array fields must never be nil")
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("unexpected timestamps: %v / %v", p.CreatedAt, p.UpdatedAt)
	}
}

func TestPropertiesGetByID(t *testing.T) {
	repo := memory.NewPropertiesRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, property.CreatePropertyRequest{
		Title: "Garden House", Type: "house", Price: 900, Location: "Kumasi",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Garden House" {
		t.Fatalf("unexpected listing: %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, property.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAvailableNewestFirst(t *testing.T) {
	repo := memory.NewPropertiesRepo()
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := repo.Create(ctx, property.CreatePropertyRequest{
			Title: title, Type: "house", Price: 1, Location: "x",
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	out, err := repo.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(out))
	}

	// creations within the same instant keep no defined order; only check
	// that ordering is by CreatedAt descending
	for i := 1; i < len(out); i++ {
		if out[i].CreatedAt.After(out[i-1].CreatedAt) {
			t.Fatalf("listings out of order at %d", i)
		}
	}
}

func TestListAvailableEmpty(t *testing.T) {
	repo := memory.NewPropertiesRepo()

	out, err := repo.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out == nil {
		t.Fatal("expected an empty slice, not nil")
	}
	if len(out) != 0 {
		t.Fatalf("expected no listings, got %d", len(out))
	}
}
