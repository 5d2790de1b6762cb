package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"inventory/internal/cache"
	"inventory/internal/models"
	"inventory/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	categoriesKey = "products:categories"
	categoriesTTL = 5 * time.Minute
)

type PriceInput struct {
	Selling  *float64 `json:"selling" validate:"required,gte=0"`
	Original *float64 `json:"original" validate:"omitempty,gte=0"`
}

func (p *PriceInput) toModel() models.Price {
	return models.Price{Selling: *p.Selling, Original: p.Original}
}

// CreateProductInput es el payload de creación
type CreateProductInput struct {
	Title       string      `json:"title" validate:"required"`
	Slug        *string     `json:"slug"`
	Description *string     `json:"description"`
	Price       *PriceInput `json:"price" validate:"required"`
	Images      []string    `json:"images" validate:"omitempty,dive,url"`
	Category    *string     `json:"category"`
	Stock       *int        `json:"stock" validate:"omitempty,gte=0"`
	Status      *string     `json:"status" validate:"omitempty,oneof=draft active archived"`
	Notes       *string     `json:"notes"`
	Order       *int        `json:"order" validate:"omitempty,gte=0"`
}

// UpdateProductInput es el payload de actualización parcial
type UpdateProductInput struct {
	Title       *string     `json:"title" validate:"omitempty,min=1"`
	Slug        *string     `json:"slug"`
	Description *string     `json:"description"`
	Price       *PriceInput `json:"price"`
	Images      []string    `json:"images" validate:"omitempty,dive,url"`
	Category    *string     `json:"category"`
	Stock       *int        `json:"stock" validate:"omitempty,gte=0"`
	Status      *string     `json:"status" validate:"omitempty,oneof=draft active archived"`
	Notes       *string     `json:"notes"`
}

// ReorderInput asigna el orden de una categoría completa
type ReorderInput struct {
	Category *string  `json:"category"`
	IDs      []string `json:"ids" validate:"required,min=1,dive,required"`
}

type ListMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

type ListResult struct {
	Data []*models.Product `json:"data"`
	Meta ListMeta          `json:"meta"`
}

type ProductService struct {
	repo   repository.ProductRepository
	cache  *cache.Cache
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, c *cache.Cache, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// NormalizeListQuery aplica los valores por defecto y el tope de paginación
func NormalizeListQuery(page, limit int, search string) models.ListQuery {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return models.ListQuery{Page: page, Limit: limit, Search: strings.TrimSpace(search)}
}

// List devuelve una página de productos no borrados
func (s *ProductService) List(ctx context.Context, query models.ListQuery) (*ListResult, error) {
	query = NormalizeListQuery(query.Page, query.Limit, query.Search)

	products, total, err := s.repo.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*models.Product{}
	}

	return &ListResult{
		Data: products,
		Meta: ListMeta{Total: total, Page: query.Page, Limit: query.Limit},
	}, nil
}

// Create valida el payload, completa slug, categoría y orden, y persiste
func (s *ProductService) Create(ctx context.Context, in *CreateProductInput) (*models.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	slugSource := in.Title
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		slugSource = *in.Slug
	}
	slug := Slugify(slugSource)
	if slug == "" {
		return nil, newFieldError("slug", "slug", "slug must contain at least one letter or digit")
	}

	product := &models.Product{
		Title:       in.Title,
		Slug:        slug,
		Description: trimmed(in.Description),
		Price:       in.Price.toModel(),
		Images:      in.Images,
		Category:    normalizeCategory(in.Category),
		Stock:       0,
		Status:      models.StatusDraft,
		Notes:       trimmed(in.Notes),
		Order:       in.Order,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.Status != nil {
		product.Status = *in.Status
	}

	// Los productos nuevos van al final de su categoría
	if product.Order == nil {
		next, err := s.nextOrder(ctx, product.Category)
		if err != nil {
			return nil, err
		}
		product.Order = &next
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate()

	s.logger.Info("product created",
		zap.String("id", product.ID.Hex()),
		zap.String("slug", product.Slug),
		zap.String("category", product.Category),
		zap.Int("order", *product.Order),
	)
	return product, nil
}

// Get obtiene un producto por ID, borrado o no
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Update valida y aplica una actualización parcial
func (s *ProductService) Update(ctx context.Context, id string, in *UpdateProductInput) (*models.Product, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	update := &models.ProductUpdate{
		Title:  in.Title,
		Images: in.Images,
		Stock:  in.Stock,
		Status: in.Status,
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		update.Description = &d
	}
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		update.Notes = &n
	}
	if in.Price != nil {
		price := in.Price.toModel()
		update.Price = &price
	}
	if in.Category != nil {
		category := normalizeCategory(in.Category)
		update.Category = &category
	}

	// Slug explícito gana; si solo cambia el título se regenera desde el título
	switch {
	case in.Slug != nil && strings.TrimSpace(*in.Slug) != "":
		slug := Slugify(*in.Slug)
		update.Slug = &slug
	case in.Title != nil:
		slug := Slugify(*in.Title)
		update.Slug = &slug
	}
	if update.Slug != nil && *update.Slug == "" {
		return nil, newFieldError("slug", "slug", "slug must contain at least one letter or digit")
	}

	if update.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	return product, nil
}

// Delete hace el borrado lógico
func (s *ProductService) Delete(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate()

	s.logger.Info("product soft-deleted", zap.String("id", id))
	return product, nil
}

// Reorder persiste el orden manual de una categoría
func (s *ProductService) Reorder(ctx context.Context, in *ReorderInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}

	category := normalizeCategory(in.Category)
	if err := s.repo.Reorder(ctx, category, in.IDs); err != nil {
		return err
	}

	s.logger.Info("category reordered", zap.String("category", category), zap.Int("count", len(in.IDs)))
	return nil
}

// Categories devuelve las categorías en uso, cacheadas
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(categoriesKey); ok {
		if categories, ok := cached.([]string); ok {
			return categories, nil
		}
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(categoriesKey, categories, categoriesTTL)
	return categories, nil
}

func (s *ProductService) nextOrder(ctx context.Context, category string) (int, error) {
	last, err := s.repo.LastInCategory(ctx, category)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 0, nil
	}
	if last.Order == nil {
		return 1, nil
	}
	return *last.Order + 1, nil
}

func (s *ProductService) invalidate() {
	s.cache.DeleteByPrefix("products:")
}

func normalizeCategory(category *string) string {
	if category == nil {
		return models.DefaultCategory
	}
	c := strings.TrimSpace(*category)
	if c == "" {
		return models.DefaultCategory
	}
	return c
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
