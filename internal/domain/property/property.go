package property

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("property not found")

type Property struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Location     string    `json:"location"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	ImageURLs    []string  `json:"imageUrls"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	SquareMeters float64   `json:"squareMeters"`
	Amenities    []string  `json:"amenities"`
	ManagerID    string    `json:"managerId"`
	ManagerName  string    `json:"managerName"`
	ManagerPhone string    `json:"managerPhone"`
	ManagerEmail string    `json:"managerEmail"`
	IsAvailable  bool      `json:"isAvailable"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreatePropertyRequest struct {
	Title        string
	Description  string
	Type         string
	Price        float64
	Currency     string
	Location     string
	Latitude     *float64
	Longitude    *float64
	ImageURLs    []string
	Bedrooms     int
	Bathrooms    int
	SquareMeters float64
	Amenities    []string
	ManagerID    string
	ManagerName  string
	ManagerPhone string
	ManagerEmail string
}

type Store interface {
	ListAvailable(ctx context.Context) ([]Property, error)
	GetByID(ctx context.Context, id string) (Property, error)
	Create(ctx context.Context, req CreatePropertyRequest) (Property, error)
}
