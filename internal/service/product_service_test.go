package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"inventory/internal/cache"
	"inventory/internal/models"
	"inventory/internal/repository"
	"inventory/internal/service"
)

func newService(t *testing.T) (*service.ProductService, *repository.MemoryProductRepository) {
	t.Helper()
	repo := repository.NewMemoryProductRepository()
	c := cache.New(time.Minute, 0)
	t.Cleanup(c.Close)
	return service.NewProductService(repo, c, zaptest.NewLogger(t)), repo
}

func strPtr(s string) *string     { return &s }
func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func createInput(title, category string) *service.CreateProductInput {
	in := &service.CreateProductInput{
		Title: title,
		Price: &service.PriceInput{Selling: floatPtr(250000)},
	}
	if category != "" {
		in.Category = strPtr(category)
	}
	return in
}

func TestProductService_CreateAppliesDefaults(t *testing.T) {
	svc, _ := newService(t)

	p, err := svc.Create(context.Background(), createInput("  Hello World!  ", ""))
	require.NoError(t, err)

	assert.Equal(t, "Hello World!", p.Title)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, models.DefaultCategory, p.Category)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, 0, p.Stock)
	assert.NotNil(t, p.Images)
	require.NotNil(t, p.Order)
	assert.Equal(t, 0, *p.Order)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestProductService_CreateUsesExplicitSlug(t *testing.T) {
	svc, _ := newService(t)

	in := createInput("Runner", "Shoes")
	in.Slug = strPtr("My Custom  Slug")
	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "my-custom-slug", p.Slug)
}

func TestProductService_CreateAppendsToCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	in := createInput("First", "Shoes")
	in.Order = intPtr(4)
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	next, err := svc.Create(ctx, createInput("Second", "Shoes"))
	require.NoError(t, err)
	assert.Equal(t, 5, *next.Order)

	other, err := svc.Create(ctx, createInput("Hat", "Hats"))
	require.NoError(t, err)
	assert.Equal(t, 0, *other.Order)
}

func TestProductService_CreateWhenLastHasNoOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	require.NoError(t, repo.Create(ctx, &models.Product{Title: "legacy", Slug: "legacy", Category: "Bags"}))

	p, err := svc.Create(ctx, createInput("New bag", "Bags"))
	require.NoError(t, err)
	assert.Equal(t, 1, *p.Order)
}

func TestProductService_CreateValidation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name  string
		in    *service.CreateProductInput
		field string
	}{
		{"missing title", &service.CreateProductInput{Title: "  ", Price: &service.PriceInput{Selling: floatPtr(1)}}, "title"},
		{"missing price", &service.CreateProductInput{Title: "x"}, "price"},
		{"missing selling", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{}}, "price.selling"},
		{"negative selling", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(-1)}}, "price.selling"},
		{"negative original", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(1), Original: floatPtr(-5)}}, "price.original"},
		{"negative stock", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(1)}, Stock: intPtr(-1)}, "stock"},
		{"bad status", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(1)}, Status: strPtr("sold")}, "status"},
		{"bad image", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(1)}, Images: []string{"not a url"}}, "images[0]"},
		{"negative order", &service.CreateProductInput{Title: "x", Price: &service.PriceInput{Selling: floatPtr(1)}, Order: intPtr(-2)}, "order"},
		{"empty slug", &service.CreateProductInput{Title: "!!!", Price: &service.PriceInput{Selling: floatPtr(1)}}, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestProductService_UpdateResluggesOnTitleChange(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p, err := svc.Create(ctx, createInput("Old name", "Shoes"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID.Hex(), &service.UpdateProductInput{Title: strPtr("Brand New Name")})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-name", updated.Slug)
	assert.Equal(t, "Shoes", updated.Category)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	updated, err = svc.Update(ctx, p.ID.Hex(), &service.UpdateProductInput{
		Title: strPtr("Ignored For Slug"),
		Slug:  strPtr("Explicit Slug"),
	})
	require.NoError(t, err)
	assert.Equal(t, "explicit-slug", updated.Slug)
}

func TestProductService_UpdateInvalidPriceLeavesProductUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	p, err := svc.Create(ctx, createInput("Lamp", "Home"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID.Hex(), &service.UpdateProductInput{
		Title: strPtr("Changed"),
		Price: &service.PriceInput{Selling: floatPtr(-10)},
	})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := svc.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Lamp", stored.Title)
	assert.Equal(t, 250000.0, stored.Price.Selling)
}

func TestProductService_UpdateUnknownID(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Update(context.Background(), "0123456789abcdef01234567", &service.UpdateProductInput{Stock: intPtr(3)})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductService_DeleteThenGetAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	keep, err := svc.Create(ctx, createInput("Keep", "Misc"))
	require.NoError(t, err)
	drop, err := svc.Create(ctx, createInput("Drop", "Misc"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, drop.ID.Hex())
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted())

	got, err := svc.Get(ctx, drop.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, drop.ID, got.ID)

	list, err := svc.List(ctx, models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, keep.ID, list.Data[0].ID)
	assert.EqualValues(t, 1, list.Meta.Total)
	assert.Equal(t, service.DefaultPage, list.Meta.Page)
	assert.Equal(t, service.DefaultLimit, list.Meta.Limit)
}

func TestProductService_Reorder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	a, _ := svc.Create(ctx, createInput("a", "Shoes"))
	b, _ := svc.Create(ctx, createInput("b", "Shoes"))
	c, _ := svc.Create(ctx, createInput("c", "Shoes"))
	hat, _ := svc.Create(ctx, createInput("hat", "Hats"))

	err := svc.Reorder(ctx, &service.ReorderInput{
		Category: strPtr("Shoes"),
		IDs:      []string{b.ID.Hex(), a.ID.Hex(), c.ID.Hex(), hat.ID.Hex()},
	})
	require.NoError(t, err)

	for id, want := range map[string]int{b.ID.Hex(): 0, a.ID.Hex(): 1, c.ID.Hex(): 2, hat.ID.Hex(): 0} {
		p, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, *p.Order, p.Title)
	}
}

func TestProductService_ReorderValidation(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Reorder(context.Background(), &service.ReorderInput{Category: strPtr("Shoes")})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ids", verr.Errors[0].Field)

	err = svc.Reorder(context.Background(), &service.ReorderInput{IDs: []string{"zzz"}})
	assert.ErrorIs(t, err, repository.ErrInvalidID)
}

func TestProductService_CategoriesCacheInvalidatedOnCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Create(ctx, createInput("boot", "Shoes"))
	require.NoError(t, err)

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes"}, categories)

	_, err = svc.Create(ctx, createInput("cap", "Hats"))
	require.NoError(t, err)

	categories, err = svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hats", "Shoes"}, categories)
}

func TestNormalizeListQuery(t *testing.T) {
	q := service.NormalizeListQuery(0, 0, "  shoe ")
	assert.Equal(t, models.ListQuery{Page: 1, Limit: 20, Search: "shoe"}, q)

	q = service.NormalizeListQuery(3, 500, "")
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, service.MaxLimit, q.Limit)
}
