package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory/internal/models"
)

// MemoryProductRepository es una implementación en memoria de ProductRepository.
// Reproduce la semántica del repositorio Mongo; se usa en tests y en modo demo.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[primitive.ObjectID]models.Product),
	}
}

func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slugTaken(product.Slug, primitive.NilObjectID) {
		return ErrDuplicateSlug
	}

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	r.products[product.ID] = clone(*product)
	return nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[objID]
	if !ok {
		return nil, ErrNotFound
	}
	out := clone(p)
	return &out, nil
}

func (r *MemoryProductRepository) FindAll(_ context.Context, query models.ListQuery) ([]*models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(query.Search)
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsDeleted() {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		ao, bo := sortOrder(a.Order), sortOrder(b.Order)
		if ao != bo {
			return ao < bo
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})

	total := int64(len(matched))
	start := int(query.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && start+query.Limit < end {
		end = start + query.Limit
	}

	page := make([]*models.Product, 0, end-start)
	for _, p := range matched[start:end] {
		out := clone(p)
		page = append(page, &out)
	}
	return page, total, nil
}

func (r *MemoryProductRepository) Update(_ context.Context, id string, update *models.ProductUpdate) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[objID]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Slug != nil && r.slugTaken(*update.Slug, objID) {
		return nil, ErrDuplicateSlug
	}

	update.Apply(&p)
	p.UpdatedAt = time.Now().UTC()
	r.products[objID] = clone(p)

	out := clone(p)
	return &out, nil
}

func (r *MemoryProductRepository) SoftDelete(_ context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[objID]
	if !ok {
		return nil, ErrNotFound
	}
	if !p.IsDeleted() {
		now := time.Now().UTC()
		p.DeletedAt = &now
		p.UpdatedAt = now
		r.products[objID] = p
	}

	out := clone(p)
	return &out, nil
}

func (r *MemoryProductRepository) Reorder(_ context.Context, category string, ids []string) error {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		objIDs = append(objIDs, objID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for i, objID := range objIDs {
		p, ok := r.products[objID]
		if !ok || p.Category != category || p.IsDeleted() {
			continue
		}
		order := i
		p.Order = &order
		p.UpdatedAt = now
		r.products[objID] = p
	}
	return nil
}

func (r *MemoryProductRepository) LastInCategory(_ context.Context, category string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *models.Product
	for _, p := range r.products {
		if p.Category != category || p.IsDeleted() {
			continue
		}
		// Igual que Mongo en orden descendente: sin order queda detrás de cualquier valor
		if last == nil || orderGreater(p.Order, last.Order) {
			c := clone(p)
			last = &c
		}
	}
	return last, nil
}

func (r *MemoryProductRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.products {
		if p.IsDeleted() || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// slugTaken revisa todos los productos, borrados incluidos (índice único global)
func (r *MemoryProductRepository) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, p := range r.products {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func sortOrder(order *int) int {
	if order == nil {
		return math.MaxInt32
	}
	return *order
}

func orderGreater(a, b *int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return *a > *b
	}
}

// clone copia los campos con referencias para que el mapa no comparta memoria con el llamador
func clone(p models.Product) models.Product {
	if p.Images != nil {
		images := make([]string, len(p.Images))
		copy(images, p.Images)
		p.Images = images
	}
	if p.Order != nil {
		o := *p.Order
		p.Order = &o
	}
	if p.DeletedAt != nil {
		d := *p.DeletedAt
		p.DeletedAt = &d
	}
	if p.Price.Original != nil {
		o := *p.Price.Original
		p.Price.Original = &o
	}
	return p
}
