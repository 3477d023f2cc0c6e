package fallback

import (
	"context"

	"github.com/truehome/backend/internal/domain/user"
)

// UsersStore routes every call to the durable store when the probe says the
// database is reachable and to the ephemeral store otherwise. The decision
// is made per call, never pinned: a transient outage degrades one request
// and the next one recovers on its own.
//
// Known consistency gap, preserved from the original system: nothing ever
// migrates from the ephemeral store into the durable one, so a user created
// during an outage becomes invisible after the database recovers.
type UsersStore struct {
	probe     Probe
	durable   user.Store
	ephemeral user.Store
}

func NewUsersStore(probe Probe, durable, ephemeral user.Store) *UsersStore {
	return &UsersStore{
		probe:     probe,
		durable:   durable,
		ephemeral: ephemeral,
	}
}

func (s *UsersStore) pick(ctx context.Context) user.Store {
	if s.probe.Available(ctx) {
		return s.durable
	}

	return s.ephemeral
}

func (s *UsersStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return s.pick(ctx).GetByEmail(ctx, email)
}

func (s *UsersStore) GetByID(ctx context.Context, id string) (user.User, error) {
	return s.pick(ctx).GetByID(ctx, id)
}

func (s *UsersStore) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	return s.pick(ctx).Create(ctx, req)
}

func (s *UsersStore) SetVerified(ctx context.Context, id string) (user.User, error) {
	return s.pick(ctx).SetVerified(ctx, id)
}
