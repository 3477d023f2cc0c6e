package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/truehome/backend/internal/domain/user"
	"github.com/truehome/backend/internal/observability"
)

const userColumns = `id, email, password_hash, name, phone_number, role,
	company_name, company_address, whatsapp_number, profile_image_url,
	is_verified, created_at, updated_at`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *UsersRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.PhoneNumber,
		&u.Role,
		&u.CompanyName,
		&u.CompanyAddress,
		&u.WhatsappNumber,
		&u.ProfileImageURL,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (repo *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	var err error

	err = repo.observe("users.get_by_email", func() error {
		u, err = scanUser(repo.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			email,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (repo *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	var err error

	err = repo.observe("users.get_by_id", func() error {
		u, err = scanUser(repo.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`,
			id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (repo *UsersRepo) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
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

	err := repo.observe("users.create", func() error {
		_, e := repo.pool.Exec(ctx,
			`INSERT INTO users (`+userColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			u.ID, u.Email, u.PasswordHash, u.Name, u.PhoneNumber, u.Role,
			u.CompanyName, u.CompanyAddress, u.WhatsappNumber, u.ProfileImageURL,
			u.IsVerified, u.CreatedAt, u.UpdatedAt,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The unique constraint is the ground truth; the existence
			// pre-check in the service can lose a race to here.
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (repo *UsersRepo) SetVerified(ctx context.Context, id string) (user.User, error) {
	var u user.User
	var err error

	err = repo.observe("users.set_verified", func() error {
		u, err = scanUser(repo.pool.QueryRow(
			ctx,
			`UPDATE users
			 SET is_verified = TRUE, updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+userColumns,
			id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}
