package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/truehome/backend/internal/auth"
	"github.com/truehome/backend/internal/domain/user"
	"github.com/truehome/backend/internal/repo/memory"
	"github.com/truehome/backend/internal/security"
)

func newTestService() (*auth.Service, *auth.Issuer, *memory.UsersRepo) {
	store := memory.NewUsersRepo()
	hasher := security.NewHasher(bcrypt.MinCost)
	issuer := auth.NewIssuer("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)

	return auth.NewService(store, hasher, issuer), issuer, store
}

func validRegisterInput() auth.RegisterInput {
	return auth.RegisterInput{
		Email:       "a@x.com",
		Password:    "pw123456",
		Name:        "A",
		PhoneNumber: "+100",
		Role:        "customer",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, issuer, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if session.User.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", session.User.Email)
	}
	if session.User.IsVerified {
		t.Fatalf("new users must start unverified")
	}
	if session.User.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatalf("expected two non-empty tokens")
	}
	if session.AccessToken == session.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}

	claims, err := issuer.VerifyAccessToken(session.AccessToken)
	if err != nil {
		t.Fatalf("verify issued access token: %v", err)
	}
	if claims.UserID != session.User.ID || claims.Email != session.User.Email || claims.Role != "customer" {
		t.Fatalf("token claims do not match the registered user: %+v", claims)
	}

	login, err := svc.Login(ctx, "a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("login after register: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Fatalf("login resolved a different user")
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*auth.RegisterInput)
	}{
		{"email", func(in *auth.RegisterInput) { in.Email = "" }},
		{"password", func(in *auth.RegisterInput) { in.Password = "" }},
		{"name", func(in *auth.RegisterInput) { in.Name = "" }},
		{"phoneNumber", func(in *auth.RegisterInput) { in.PhoneNumber = "" }},
		{"role", func(in *auth.RegisterInput) { in.Role = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegisterInput()
			tc.mutate(&in)

			_, err := svc.Register(context.Background(), in)

			if !errors.Is(err, auth.ErrMissingFields) {
				t.Fatalf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, store := newTestService()
	ctx := context.Background()

	first, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := validRegisterInput()
	in.Name = "Impostor"

	_, err = svc.Register(ctx, in)

	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// the original record is untouched
	got, err := store.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != first.User.ID || got.Name != "A" {
		t.Fatalf("existing record was altered: %+v", got)
	}
}

func TestLoginInvalidCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "a@x.com", "not-the-password")
	_, unknownEmail := svc.Login(ctx, "nobody@x.com", "pw123456")

	if !errors.Is(wrongPassword, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("the two failure modes must be indistinguishable")
	}
}

func TestLoginMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, auth.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", ""); !errors.Is(err, auth.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := svc.Profile(ctx, session.User.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if u.Email != "a@x.com" {
		t.Fatalf("unexpected profile user: %+v", u)
	}

	_, err = svc.Profile(ctx, "missing-id")
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a vanished user, got %v", err)
	}
}

func TestRefreshMintsAccessToken(t *testing.T) {
	svc, issuer, _ := newTestService()
	ctx := context.Background()

	session, err := svc.Register(ctx, validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	accessToken, err := svc.Refresh(session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := issuer.VerifyAccessToken(accessToken)
	if err != nil {
		t.Fatalf("verify refreshed token: %v", err)
	}
	if claims.UserID != session.User.ID || claims.Email != session.User.Email {
		t.Fatalf("refreshed token identity mismatch: %+v", claims)
	}
	// role is not re-fetched on refresh; the refresh token carries none
	if claims.Role != "" {
		t.Fatalf("refreshed access token should carry no role, got %q", claims.Role)
	}
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Refresh("garbage"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	// an access token must not work as a refresh token
	session, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Refresh(session.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for an access token, got %v", err)
	}
}
