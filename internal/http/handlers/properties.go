package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/truehome/backend/internal/config"
	"github.com/truehome/backend/internal/domain/property"
	"github.com/truehome/backend/internal/http/middlewares"
)

type PropertyStore interface {
	ListAvailable(ctx context.Context) ([]property.Property, error)
	GetByID(ctx context.Context, id string) (property.Property, error)
	Create(ctx context.Context, req property.CreatePropertyRequest) (property.Property, error)
}

type PropertiesHandler struct {
	store PropertyStore
}

func NewPropertiesHandler(store PropertyStore) *PropertiesHandler {
	return &PropertiesHandler{store: store}
}

type CreatePropertyRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Type         string   `json:"type" binding:"required"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	Currency     string   `json:"currency"`
	Location     string   `json:"location" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	ImageURLs    []string `json:"imageUrls"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int      `json:"bathrooms" binding:"gte=0"`
	SquareMeters float64  `json:"squareMeters" binding:"gte=0"`
	Amenities    []string `json:"amenities"`
	ManagerName  string   `json:"managerName"`
	ManagerPhone string   `json:"managerPhone"`
	ManagerEmail string   `json:"managerEmail"`
}

func (h *PropertiesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	props, err := h.store.ListAvailable(cctx)

	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, props)
}

func (h *PropertiesHandler) GetByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	p, err := h.store.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			RespondNotFound(ctx, "Property not found")
			return
		}

		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// Create runs behind RequireAuth + RequireRole(manager). The listing is
// bound to the authenticated manager, not to whatever the body claims.
func (h *PropertiesHandler) Create(ctx *gin.Context) {
	var req CreatePropertyRequest

	if !BindJSON(ctx, &req) {
		return
	}

	managerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || managerID == "" {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	p, err := h.store.Create(cctx, property.CreatePropertyRequest{
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
		ManagerID:    managerID,
		ManagerName:  req.ManagerName,
		ManagerPhone: req.ManagerPhone,
		ManagerEmail: req.ManagerEmail,
	})

	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}
