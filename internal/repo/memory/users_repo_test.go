package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/truehome/backend/internal/domain/user"
)

func createReq(email string) user.CreateUserRequest {
	return user.CreateUserRequest{
		Email:        email,
		PasswordHash: "$2a$04$fakehash",
		Name:         "A",
		PhoneNumber:  "+100",
		Role:         "customer",
	}
}

func TestCreateAndLookup(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createReq("a@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.IsVerified {
		t.Fatalf("new users start unverified")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("get by email: %v, %+v", err, byEmail)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil || byID.Email != "a@x.com" {
		t.Fatalf("get by id: %v, %+v", err, byID)
	}
}

func TestLookupMisses(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	if _, err := repo.GetByEmail(ctx, "nobody@x.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, createReq("a@x.com")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Create(ctx, createReq("a@x.com")); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// Uniqueness holds even when registrations race: check-and-insert happens
// under one lock.
func TestConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	const attempts = 16

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, createReq("race@x.com"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, user.ErrEmailTaken) {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("expected exactly one successful create, got %d", wins)
	}
}

func TestSetVerified(t *testing.T) {
	repo := NewUsersRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, createReq("a@x.com"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := repo.SetVerified(ctx, created.ID)
	if err != nil {
		t.Fatalf("set verified: %v", err)
	}
	if !updated.IsVerified {
		t.Fatalf("expected verified user")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("updatedAt should move forward")
	}

	if _, err := repo.SetVerified(ctx, "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
