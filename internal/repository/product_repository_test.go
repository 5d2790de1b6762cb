package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"inventory/internal/models"
)

func productDoc(id primitive.ObjectID, title string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: title},
		{Key: "slug", Value: title},
		{Key: "price", Value: bson.D{{Key: "selling", Value: 1500.0}}},
		{Key: "images", Value: bson.A{}},
		{Key: "category", Value: "Shoes"},
		{Key: "stock", Value: 3},
		{Key: "status", Value: "active"},
		{Key: "order", Value: 2},
		{Key: "createdAt", Value: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestMongoRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, productDoc(id, "runner")))

		product, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, product.ID)
		assert.Equal(mt, "runner", product.Title)
		assert.Equal(mt, 1500.0, product.Price.Selling)
		require.NotNil(mt, product.Order)
		assert.Equal(mt, 2, *product.Order)
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)

		_, err := repo.FindByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoRepository_CreateDuplicateSlug(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: inventory.products index: slug_unique",
		}))

		err := repo.Create(context.Background(), &models.Product{Title: "runner", Slug: "runner"})
		assert.ErrorIs(mt, err, ErrDuplicateSlug)
	})

	mt.Run("success", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p := &models.Product{Title: "runner", Slug: "runner"}
		require.NoError(mt, repo.Create(context.Background(), p))
		assert.False(mt, p.ID.IsZero())
		assert.False(mt, p.CreatedAt.IsZero())
		assert.NotNil(mt, p.Images)
	})
}

func TestMongoRepository_Reorder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("single bulk write scoped to category", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))

		ids := []string{
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
			primitive.NewObjectID().Hex(),
		}
		require.NoError(mt, repo.Reorder(context.Background(), "Shoes", ids))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)

		updates, err := started.Command.Lookup("updates").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, updates, 3)

		last := updates[2].Document()
		assert.Equal(mt, "Shoes", last.Lookup("q", "category").StringValue())
		assert.EqualValues(mt, 2, last.Lookup("u", "$set", "order").AsInt64())
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)

		err := repo.Reorder(context.Background(), "Shoes", []string{"bad"})
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}

func TestMongoRepository_UpdateNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no document", func(mt *mtest.T) {
		repo := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: nil},
		})

		title := "new"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), &models.ProductUpdate{Title: &title})
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestListFilter(t *testing.T) {
	filter := listFilter("")
	assert.Contains(t, filter, "deletedAt")
	assert.NotContains(t, filter, "$or")

	filter = listFilter("a+b")
	or, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, primitive.Regex{Pattern: `a\+b`, Options: "i"}, or[0]["title"])
}
