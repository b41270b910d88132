// CBarrera | 2026
// repository.go

package cart

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cbarrera-dev/storefront/internal/core"
)

type Repository struct {
	collection *mongo.Collection
}

var _ Store = (*Repository)(nil)

func NewRepository(db *core.Database) *Repository {
	return &Repository{
		collection: db.Collection(core.CollectionCarts),
	}
}

func (r *Repository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*Cart, error) {
	var c Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c)
	if err != nil {
		if core.IsNoDocuments(err) {
			return nil, fmt.Errorf("find cart: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return &c, nil
}

func (r *Repository) Create(ctx context.Context, c *Cart) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert cart: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert cart: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid
	}
	return nil
}

func (r *Repository) Replace(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update cart: %w", core.ErrNotFound)
	}
	return nil
}
