package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/truehome/backend/internal/auth"
	"github.com/truehome/backend/internal/config"
	"github.com/truehome/backend/internal/domain/user"
	"github.com/truehome/backend/internal/http/middlewares"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	Name           string  `json:"name" binding:"required"`
	PhoneNumber    string  `json:"phoneNumber" binding:"required"`
	Role           string  `json:"role" binding:"required,oneof=customer manager"`
	CompanyName    *string `json:"companyName"`
	CompanyAddress *string `json:"companyAddress"`
	WhatsappNumber *string `json:"whatsappNumber"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	session, err := h.svc.Register(cctx, auth.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		PhoneNumber:    req.PhoneNumber,
		Role:           req.Role,
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		WhatsappNumber: req.WhatsappNumber,
	})

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			RespondBadRequest(ctx, "Missing required fields", nil)
		case errors.Is(err, user.ErrEmailTaken):
			RespondBadRequest(ctx, "User already exists", nil)
		default:
			RespondInternal(ctx, "Internal server error during registration")
		}
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	session, err := h.svc.Login(cctx, req.Email, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			RespondBadRequest(ctx, "Email and password required", nil)
		case errors.Is(err, auth.ErrInvalidCredentials):
			RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
		default:
			RespondInternal(ctx, "Internal server error during login")
		}
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// Profile runs behind RequireAuth; identity comes from the verified token.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.svc.Profile(cctx, userID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// issued a token, record gone since
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	var req RefreshRequest

	// A missing or empty body is the same as a missing token (401), so bind
	// errors are deliberately not surfaced as 400 here.
	_ = ctx.ShouldBindJSON(&req)

	if req.RefreshToken == "" {
		RespondUnAuthorized(ctx, "no_refresh", "Refresh token required")
		return
	}

	accessToken, err := h.svc.Refresh(req.RefreshToken)

	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			RespondForbidden(ctx, "invalid_refresh", "Invalid refresh token")
			return
		}

		RespondInternal(ctx, "Could not refresh session")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
	})
}
