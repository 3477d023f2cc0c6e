package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

// Roles accepted at registration.
const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
)

type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // never expose hash in JSON
	Name            string    `json:"name"`
	PhoneNumber     string    `json:"phoneNumber"`
	Role            string    `json:"role"`
	CompanyName     *string   `json:"companyName"`
	CompanyAddress  *string   `json:"companyAddress"`
	WhatsappNumber  *string   `json:"whatsappNumber"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	IsVerified      bool      `json:"isVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateUserRequest carries everything the store needs to insert a user.
// The store assigns the ID and both timestamps.
type CreateUserRequest struct {
	Email          string
	PasswordHash   string
	Name           string
	PhoneNumber    string
	Role           string
	CompanyName    *string
	CompanyAddress *string
	WhatsappNumber *string
}

// Store is the persistence contract the auth service is written against.
// The postgres and in-memory implementations must be indistinguishable to
// callers: same field shapes, same sentinel errors.
type Store interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	SetVerified(ctx context.Context, id string) (User, error)
}
