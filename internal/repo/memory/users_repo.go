package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/truehome/backend/internal/domain/user"
)

// UsersRepo is the process-local substitute for the postgres repo. Data here
// never migrates into the database: a user created while the database was
// down is invisible once it recovers.
type UsersRepo struct {
	mu      sync.RWMutex
	items   map[string]user.User // keyed by id
	byEmail map[string]string    // email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items:   make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return r.items[id], nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, req user.CreateUserRequest) (user.User, error) {
	now := time.Now().UTC()

	u := user.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		PasswordHash:   req.PasswordHash,
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Role:           req.Role,
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		WhatsappNumber: req.WhatsappNumber,
		IsVerified:     false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check-and-insert under one lock so concurrent registers cannot slip a
	// duplicate email past the existence check.
	if _, taken := r.byEmail[u.Email]; taken {
		return user.User{}, user.ErrEmailTaken
	}

	r.items[u.ID] = u
	r.byEmail[u.Email] = u.ID

	return u, nil
}

func (r *UsersRepo) SetVerified(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u.IsVerified = true
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u

	return u, nil
}
