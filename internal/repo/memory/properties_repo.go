package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/truehome/backend/internal/domain/property"
)

type PropertiesRepo struct {
	mu    sync.RWMutex
	items map[string]property.Property
}

func NewPropertiesRepo() *PropertiesRepo {
	return &PropertiesRepo{
		items: make(map[string]property.Property),
	}
}

func (r *PropertiesRepo) ListAvailable(_ context.Context) ([]property.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []property.Property{}

	for _, p := range r.items {
		if p.IsAvailable {
			out = append(out, p)
		}
	}

	// newest first, matching the postgres ordering
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (r *PropertiesRepo) GetByID(_ context.Context, id string) (property.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]

	if !ok {
		return property.Property{}, property.ErrNotFound
	}

	return p, nil
}

func (r *PropertiesRepo) Create(_ context.Context, req property.CreatePropertyRequest) (property.Property, error) {
	now := time.Now().UTC()

	p := property.Property{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Price:        req.Price,
		Currency:     req.Currency,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ImageURLs:    req.ImageURLs,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareMeters: req.SquareMeters,
		Amenities:    req.Amenities,
		ManagerID:    req.ManagerID,
		ManagerName:  req.ManagerName,
		ManagerPhone: req.ManagerPhone,
		ManagerEmail: req.ManagerEmail,
		IsAvailable:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if p.Currency == "" {
		p.Currency = "USD"
	}

	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	if p.Amenities == nil {
		p.Amenities = []string{}
	}

	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}
