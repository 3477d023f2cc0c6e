package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/truehome/backend/internal/domain/property"
	"github.com/truehome/backend/internal/observability"
)

const propertyColumns = `id, title, description, type, price, currency, location,
	latitude, longitude, image_urls, bedrooms, bathrooms, square_meters,
	amenities, manager_id, manager_name, manager_phone, manager_email,
	is_available, created_at, updated_at`

type PropertiesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPropertiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *PropertiesRepo {
	return &PropertiesRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *PropertiesRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanProperty(row pgx.Row) (property.Property, error) {
	var p property.Property

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Type,
		&p.Price,
		&p.Currency,
		&p.Location,
		&p.Latitude,
		&p.Longitude,
		&p.ImageURLs,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareMeters,
		&p.Amenities,
		&p.ManagerID,
		&p.ManagerName,
		&p.ManagerPhone,
		&p.ManagerEmail,
		&p.IsAvailable,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	return p, err
}

func (repo *PropertiesRepo) ListAvailable(ctx context.Context) ([]property.Property, error) {
	out := []property.Property{}

	err := repo.observe("properties.list_available", func() error {
		rows, err := repo.pool.Query(ctx,
			`SELECT `+propertyColumns+`
			 FROM properties
			 WHERE is_available = TRUE
			 ORDER BY created_at DESC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProperty(rows)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (repo *PropertiesRepo) GetByID(ctx context.Context, id string) (property.Property, error) {
	var p property.Property
	var err error

	err = repo.observe("properties.get_by_id", func() error {
		p, err = scanProperty(repo.pool.QueryRow(
			ctx,
			`SELECT `+propertyColumns+` FROM properties WHERE id = $1`,
			id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property.Property{}, property.ErrNotFound
		}

		return property.Property{}, err
	}
	return p, nil
}

func (repo *PropertiesRepo) Create(ctx context.Context, req property.CreatePropertyRequest) (property.Property, error) {
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

	err := repo.observe("properties.create", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO properties (`+propertyColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
			p.ID, p.Title, p.Description, p.Type, p.Price, p.Currency, p.Location,
			p.Latitude, p.Longitude, p.ImageURLs, p.Bedrooms, p.Bathrooms,
			p.SquareMeters, p.Amenities, p.ManagerID, p.ManagerName,
			p.ManagerPhone, p.ManagerEmail, p.IsAvailable, p.CreatedAt, p.UpdatedAt,
		)
		return e
	})

	if err != nil {
		return property.Property{}, err
	}

	return p, nil
}
