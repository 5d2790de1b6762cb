package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"

	DefaultCategory = "Uncategorized"
)

// Price guarda el precio de venta y, opcionalmente, el precio original
type Price struct {
	Selling  float64  `json:"selling" bson:"selling"`
	Original *float64 `json:"original,omitempty" bson:"original,omitempty"`
}

// Product representa un producto del inventario
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       Price              `json:"price" bson:"price"`
	Images      []string           `json:"images" bson:"images"`
	Category    string             `json:"category" bson:"category"`
	Stock       int                `json:"stock" bson:"stock"`
	Status      string             `json:"status" bson:"status"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Order       *int               `json:"order,omitempty" bson:"order,omitempty"`
	DeletedAt   *time.Time         `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsDeleted indica si el producto fue borrado lógicamente
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

// CategoryOrDefault devuelve la categoría, o la categoría por defecto si está vacía
func (p *Product) CategoryOrDefault() string {
	if p.Category == "" {
		return DefaultCategory
	}
	return p.Category
}

// ProductUpdate representa los campos actualizables de un producto.
// Un campo nil no se toca.
type ProductUpdate struct {
	Title       *string
	Slug        *string
	Description *string
	Price       *Price
	Images      []string
	Category    *string
	Stock       *int
	Status      *string
	Notes       *string
}

// IsEmpty indica si no hay nada que actualizar
func (u *ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Slug == nil && u.Description == nil && u.Price == nil &&
		u.Images == nil && u.Category == nil && u.Stock == nil && u.Status == nil && u.Notes == nil
}

// Apply copia los campos presentes sobre p
func (u *ProductUpdate) Apply(p *Product) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Slug != nil {
		p.Slug = *u.Slug
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
}

// ListQuery agrupa los parámetros del listado
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Skip devuelve cuántos documentos saltar para la página pedida
func (q ListQuery) Skip() int64 {
	if q.Page < 1 {
		return 0
	}
	return int64((q.Page - 1) * q.Limit)
}
