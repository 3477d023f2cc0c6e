package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/truehome/backend/internal/config"
	"github.com/truehome/backend/internal/domain/user"
	"github.com/truehome/backend/internal/mail"
	"github.com/truehome/backend/internal/verification"
)

type UserVerifier interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	SetVerified(ctx context.Context, id string) (user.User, error)
}

type EmailHandler struct {
	mailer mail.Mailer
	codes  verification.Store
	users  UserVerifier
	log    *slog.Logger
}

func NewEmailHandler(mailer mail.Mailer, codes verification.Store, users UserVerifier, log *slog.Logger) *EmailHandler {
	return &EmailHandler{
		mailer: mailer,
		codes:  codes,
		users:  users,
		log:    log,
	}
}

type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// SendVerification records the pending code and mails it out. Delivery is
// fire-and-forget toward the provider: one attempt, no retry.
func (h *EmailHandler) SendVerification(ctx *gin.Context) {
	var req SendVerificationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)

	defer cancel()

	if err := h.codes.Put(cctx, req.Email, req.Code); err != nil {
		h.log.Error("store verification code", "err", err)
		RespondInternal(ctx, "Failed to send verification email")
		return
	}

	msg, err := mail.NewVerificationMessage(req.Email, req.Code)

	if err != nil {
		RespondInternal(ctx, "Failed to send verification email")
		return
	}

	if err := h.mailer.Send(cctx, msg); err != nil {
		h.log.Error("send verification email", "to", req.Email, "err", err)
		RespondInternal(ctx, "Failed to send verification email")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Verification email sent successfully",
	})
}

// Verify burns the pending code and marks the account verified.
func (h *EmailHandler) Verify(ctx *gin.Context) {
	var req VerifyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	if err := h.codes.Consume(cctx, req.Email, req.Code); err != nil {
		if errors.Is(err, verification.ErrCodeMismatch) {
			RespondBadRequest(ctx, "Verification code invalid or expired", nil)
			return
		}

		RespondInternal(ctx, "Internal server error")
		return
	}

	u, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Internal server error")
		return
	}

	u, err = h.users.SetVerified(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    u,
	})
}
