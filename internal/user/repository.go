// CBarrera | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strings"
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
		collection: db.Collection(core.CollectionUsers),
	}
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", core.ErrNotFound)
	}

	var u User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err != nil {
		if core.IsNoDocuments(err) {
			return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.collection.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&u)
	if err != nil {
		if core.IsNoDocuments(err) {
			return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *Repository) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	return nil
}

func (r *Repository) setFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse user id: %w", core.ErrNotFound)
	}

	fields["updated_at"] = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	return nil
}

func (r *Repository) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	return r.setFields(ctx, id, bson.M{"refresh_token_hash": hash})
}

func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.setFields(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *Repository) UpdateRole(ctx context.Context, id, role string) error {
	return r.setFields(ctx, id, bson.M{"role": role})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
