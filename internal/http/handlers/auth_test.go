package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/truehome/backend/internal/auth"
	"github.com/truehome/backend/internal/http/handlers"
	"github.com/truehome/backend/internal/http/middlewares"
	"github.com/truehome/backend/internal/repo/memory"
	"github.com/truehome/backend/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authEnv wires the real service against the in-memory store so the handler
// tests exercise the full register/login/refresh path over HTTP.
type authEnv struct {
	router *gin.Engine
	issuer *auth.Issuer
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()

	store := memory.NewUsersRepo()
	hasher := security.NewHasher(bcrypt.MinCost)
	issuer := auth.NewIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	svc := auth.NewService(store, hasher, issuer)
	h := handlers.NewAuthHandler(svc)
	authMw := middlewares.NewAuthMiddleware(issuer)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.GET("/api/auth/profile", authMw.RequireAuth(), h.Profile)

	return &authEnv{router: r, issuer: issuer}
}

func (e *authEnv) do(t *testing.T, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

const registerBody = `{
	"email": "ama@x.com",
	"password": "hunter2hunter2",
	"name": "Ama",
	"phoneNumber": "+233200000000",
	"role": "customer"
}`

func TestRegisterCreatesSession(t *testing.T) {
	env := newAuthEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var session struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	if session.User.ID == "" || session.User.Email != "ama@x.com" {
		t.Fatalf("unexpected user in session: %+v", session.User)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens in the session")
	}

	// the hash must never appear in any response shape
	if strings.Contains(w.Body.String(), "passwordHash") || strings.Contains(w.Body.String(), "$2a$") {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthEnv(t)

	if w := env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "User already exists") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newAuthEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","password":"hunter2hunter2","name":"A","phoneNumber":"+1","role":"customer"}`},
		{"short password", `{"email":"a@x.com","password":"short","name":"A","phoneNumber":"+1","role":"customer"}`},
		{"bad role", `{"email":"a@x.com","password":"hunter2hunter2","name":"A","phoneNumber":"+1","role":"admin"}`},
		{"missing name", `{"email":"a@x.com","password":"hunter2hunter2","phoneNumber":"+1","role":"customer"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", tc.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	env := newAuthEnv(t)

	if w := env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil); w.Code != http.StatusCreated {
		t.Fatalf("register: %d", w.Code)
	}

	// wrong password and unknown email must be indistinguishable
	bodies := []string{
		`{"email":"ama@x.com","password":"wrong-password"}`,
		`{"email":"ghost@x.com","password":"hunter2hunter2"}`,
	}

	var responses []string
	for _, body := range bodies {
		w := env.do(t, http.MethodPost, "/api/auth/login", body, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
		}
		responses = append(responses, w.Body.String())
	}

	if responses[0] != responses[1] {
		t.Fatalf("login failures must not reveal which check failed:\n%s\n%s", responses[0], responses[1])
	}
}

func TestLoginThenProfile(t *testing.T) {
	env := newAuthEnv(t)

	env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil)

	w := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"ama@x.com","password":"hunter2hunter2"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d: %s", w.Code, w.Body.String())
	}

	var session struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = env.do(t, http.MethodGet, "/api/auth/profile", "", map[string]string{
		"Authorization": "Bearer " + session.AccessToken,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("profile: %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"email":"ama@x.com"`) {
		t.Fatalf("unexpected profile body: %s", w.Body.String())
	}
}

func TestProfileAuthFailures(t *testing.T) {
	env := newAuthEnv(t)

	// no token at all
	w := env.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	// garbage token
	w = env.do(t, http.MethodGet, "/api/auth/profile", "", map[string]string{
		"Authorization": "Bearer not.a.jwt",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a bad token, got %d", w.Code)
	}

	// refresh token used where an access token belongs
	refresh, err := env.issuer.IssueRefreshToken("some-id", "ama@x.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	w = env.do(t, http.MethodGet, "/api/auth/profile", "", map[string]string{
		"Authorization": "Bearer " + refresh,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a refresh token, got %d", w.Code)
	}
}

func TestRefresh(t *testing.T) {
	env := newAuthEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", registerBody, nil)
	var session struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode: %v", err)
	}

	w = env.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+session.RefreshToken+`"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: %d: %s", w.Code, w.Body.String())
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	claims, err := env.issuer.VerifyAccessToken(out.AccessToken)
	if err != nil {
		t.Fatalf("refreshed token does not verify: %v", err)
	}
	if claims.Email != "ama@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	env := newAuthEnv(t)

	// empty body and empty token both read as "no refresh token" (401)
	for _, body := range []string{"", `{}`, `{"refreshToken":""}`} {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", body, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("body %q: expected 401, got %d: %s", body, w.Code, w.Body.String())
		}
	}
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	env := newAuthEnv(t)

	// an access token is not a refresh token
	access, err := env.issuer.IssueAccessToken("some-id", "ama@x.com", "customer")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	for _, token := range []string{"garbage", access} {
		w := env.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+token+`"}`, nil)
		if w.Code != http.StatusForbidden {
			t.Fatalf("token %q: expected 403, got %d: %s", token, w.Code, w.Body.String())
		}
	}
}
