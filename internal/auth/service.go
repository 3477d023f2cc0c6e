package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/truehome/backend/internal/domain/user"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TokenIssuer is satisfied by *Issuer. Tests install fakes here; a mock
// issuer is never wired as a runtime mode.
type TokenIssuer interface {
	IssueAccessToken(userID, email, role string) (string, error)
	IssueRefreshToken(userID, email string) (string, error)
	VerifyAccessToken(token string) (*Claims, error)
	VerifyRefreshToken(token string) (*Claims, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// Session is what register and login hand back to the transport layer. The
// embedded user never carries the password hash over JSON.
type Session struct {
	User         user.User `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	PhoneNumber    string
	Role           string
	CompanyName    *string
	CompanyAddress *string
	WhatsappNumber *string
}

// Service orchestrates registration, login, profile lookup and token
// refresh against a user store, a hasher and a token issuer.
type Service struct {
	store  user.Store
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(store user.Store, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.PhoneNumber == "" || in.Role == "" {
		return Session{}, ErrMissingFields
	}

	hash, err := s.hasher.Hash(in.Password)

	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	// Best-effort pre-check. The store's unique constraint still backs this
	// up, so a concurrent register racing past here surfaces as
	// ErrEmailTaken from Create.
	_, err = s.store.GetByEmail(ctx, in.Email)

	if err == nil {
		return Session{}, user.ErrEmailTaken
	}

	if !errors.Is(err, user.ErrNotFound) {
		return Session{}, err
	}

	u, err := s.store.Create(ctx, user.CreateUserRequest{
		Email:          in.Email,
		PasswordHash:   hash,
		Name:           in.Name,
		PhoneNumber:    in.PhoneNumber,
		Role:           in.Role,
		CompanyName:    in.CompanyName,
		CompanyAddress: in.CompanyAddress,
		WhatsappNumber: in.WhatsappNumber,
	})

	if err != nil {
		return Session{}, err
	}

	return s.newSession(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, ErrMissingFields
	}

	u, err := s.store.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same error as a wrong password: callers must not learn which
			// check failed.
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, err
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}

	return s.newSession(u)
}

// Profile resolves the user behind a verified access token's subject. The
// record can be gone by the time the token is used; that surfaces as
// user.ErrNotFound.
func (s *Service) Profile(ctx context.Context, userID string) (user.User, error) {
	return s.store.GetByID(ctx, userID)
}

// Refresh mints a new access token from the refresh token's embedded
// identity. The user's current role is NOT re-fetched from the store, so a
// role change after issuance is invisible until the next login.
func (s *Service) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)

	if err != nil {
		return "", err
	}

	return s.tokens.IssueAccessToken(claims.UserID, claims.Email, claims.Role)
}

func (s *Service) newSession(u user.User) (Session, error) {
	accessToken, err := s.tokens.IssueAccessToken(u.ID, u.Email, u.Role)

	if err != nil {
		return Session{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(u.ID, u.Email)

	if err != nil {
		return Session{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return Session{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
