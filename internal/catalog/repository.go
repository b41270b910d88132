// CBarrera | 2026
// repository.go

package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cbarrera-dev/storefront/internal/core"
)

// sortFields maps API sort names to stored field names. Unknown names fall
// back to insertion order.
var sortFields = map[string]string{
	"name":      "name",
	"price":     "price",
	"category":  "category",
	"createdAt": "created_at",
}

type Repository struct {
	collection *mongo.Collection
}

var _ Store = (*Repository)(nil)

func NewRepository(db *core.Database) *Repository {
	return &Repository{
		collection: db.Collection(core.CollectionProducts),
	}
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse product id: %w", core.ErrNotFound)
	}

	var p Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if core.IsNoDocuments(err) {
			return nil, fmt.Errorf("find product: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *Repository) Update(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}
	return nil
}

// List returns one page of products plus the unpaginated match count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Product, int64, error) {
	filter := bson.M{}
	if params.Category != "" {
		filter["category"] = params.Category
	}

	price := bson.M{}
	if params.MinPrice != nil {
		price["$gte"] = *params.MinPrice
	}
	if params.MaxPrice != nil {
		price["$lte"] = *params.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.Page-1) * int64(params.Limit)).
		SetLimit(int64(params.Limit))

	if field, ok := sortFields[params.SortField]; ok {
		direction := 1
		if !params.SortAsc {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: field, Value: direction}})
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	return products, total, nil
}
