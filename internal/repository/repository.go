package repository

import (
	"context"
	"errors"

	"inventory/internal/models"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrInvalidID     = errors.New("invalid product ID")
	ErrDuplicateSlug = errors.New("slug already in use")
)

// ProductRepository es el almacén de productos.
// Hay una implementación sobre MongoDB y otra en memoria.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindAll(ctx context.Context, query models.ListQuery) ([]*models.Product, int64, error)
	Update(ctx context.Context, id string, update *models.ProductUpdate) (*models.Product, error)
	SoftDelete(ctx context.Context, id string) (*models.Product, error)
	Reorder(ctx context.Context, category string, ids []string) error
	LastInCategory(ctx context.Context, category string) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}
