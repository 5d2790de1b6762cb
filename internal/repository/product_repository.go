package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"inventory/internal/models"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

// notDeleted coincide con documentos sin deletedAt o con deletedAt null
var notDeleted = bson.M{"deletedAt": nil}

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(collection *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{
		collection: collection,
	}
}

// EnsureIndexes crea los índices que necesita la colección
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "order", Value: -1}},
			Options: options.Index().SetName("category_order"),
		},
		{
			Keys:    bson.D{{Key: "deletedAt", Value: 1}, {Key: "order", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("listing"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Create inserta un nuevo producto
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// FindByID obtiene un producto por ID, incluso si está borrado
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &product, nil
}

// FindAll lista productos no borrados con paginación y búsqueda.
// Orden: order ascendente (sin order al final), luego createdAt descendente.
func (r *MongoProductRepository) FindAll(ctx context.Context, query models.ListQuery) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := listFilter(query.Search)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{
			"_sortOrder": bson.M{"$ifNull": bson.A{"$order", math.MaxInt32}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_sortOrder", Value: 1},
			{Key: "createdAt", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$skip", Value: query.Skip()}},
		{{Key: "$limit", Value: int64(query.Limit)}},
		{{Key: "$project", Value: bson.M{"_sortOrder": 0}}},
	}

	var (
		products []*models.Product
		total    int64
	)

	// Conteo y página en paralelo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.collection.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		cursor, err := r.collection.Aggregate(gctx, pipeline)
		if err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		defer cursor.Close(gctx)

		page := make([]*models.Product, 0, query.Limit)
		if err := cursor.All(gctx, &page); err != nil {
			return fmt.Errorf("decode products: %w", err)
		}
		products = page
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update aplica una actualización parcial y devuelve el documento resultante
func (r *MongoProductRepository) Update(ctx context.Context, id string, update *models.ProductUpdate) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	set := updateDocument(update)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &product, nil
}

// SoftDelete marca un producto como eliminado. Repetirlo no cambia deletedAt.
func (r *MongoProductRepository) SoftDelete(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"_id": objID, "deletedAt": nil}
	update := bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("delete product %s: %w", id, err)
	}

	// Ya estaba borrado o no existe
	return r.FindByID(ctx, id)
}

// Reorder asigna a cada id su posición en la lista, dentro de la categoría.
// Es un único bulk write no transaccional.
func (r *MongoProductRepository) Reorder(ctx context.Context, category string, ids []string) error {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		objIDs = append(objIDs, objID)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(objIDs))
	for i, objID := range objIDs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": objID, "category": category, "deletedAt": nil}).
			SetUpdate(bson.M{"$set": bson.M{"order": i, "updatedAt": now}}))
	}

	if _, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("reorder category %q: %w", category, err)
	}
	return nil
}

// LastInCategory devuelve el producto con mayor order de la categoría, o nil
func (r *MongoProductRepository) LastInCategory(ctx context.Context, category string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{"category": category, "deletedAt": nil}
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})

	var product models.Product
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find last in category %q: %w", category, err)
	}
	return &product, nil
}

// Categories devuelve las categorías distintas de productos no borrados
func (r *MongoProductRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	values, err := r.collection.Distinct(ctx, "category", notDeleted)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// listFilter construye el filtro del listado
func listFilter(search string) bson.M {
	filter := bson.M{"deletedAt": nil}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"category": pattern},
		}
	}
	return filter
}

// updateDocument traduce un ProductUpdate a un documento $set
func updateDocument(u *models.ProductUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Slug != nil {
		set["slug"] = *u.Slug
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Images != nil {
		set["images"] = u.Images
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Stock != nil {
		set["stock"] = *u.Stock
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Notes != nil {
		set["notes"] = *u.Notes
	}
	return set
}
