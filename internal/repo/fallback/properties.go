package fallback

import (
	"context"

	"github.com/truehome/backend/internal/domain/property"
)

// PropertiesStore mirrors UsersStore for listings: per-call probing, same
// consistency gap.
type PropertiesStore struct {
	probe     Probe
	durable   property.Store
	ephemeral property.Store
}

func NewPropertiesStore(probe Probe, durable, ephemeral property.Store) *PropertiesStore {
	return &PropertiesStore{
		probe:     probe,
		durable:   durable,
		ephemeral: ephemeral,
	}
}

func (s *PropertiesStore) pick(ctx context.Context) property.Store {
	if s.probe.Available(ctx) {
		return s.durable
	}

	return s.ephemeral
}

func (s *PropertiesStore) ListAvailable(ctx context.Context) ([]property.Property, error) {
	return s.pick(ctx).ListAvailable(ctx)
}

func (s *PropertiesStore) GetByID(ctx context.Context, id string) (property.Property, error) {
	return s.pick(ctx).GetByID(ctx, id)
}

func (s *PropertiesStore) Create(ctx context.Context, req property.CreatePropertyRequest) (property.Property, error) {
	return s.pick(ctx).Create(ctx, req)
}
