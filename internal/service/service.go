package service

import (
	"context"

	"shopfront/internal/model"
)

// ProductService defines operations for the product catalogue.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}
