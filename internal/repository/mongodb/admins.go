package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

// InsertAdmin persists a new admin account. A duplicate email surfaces as
// errs.ErrDuplicateCode via the unique index.
func (r *Repository) InsertAdmin(ctx context.Context, a *models.Admin) error {
	res, err := r.db.Collection(adminsColl).InsertOne(ctx, a)
	if err != nil {
		return translateWriteErr("insert admin", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// FindAdminByEmail resolves an admin account by email.
func (r *Repository) FindAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.Collection(adminsColl).FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("admin %s: %w", email, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find admin %s: %w", email, err)
	}
	return &a, nil
}

// ReplaceAdmin overwrites the stored admin identified by a.ID.
func (r *Repository) ReplaceAdmin(ctx context.Context, a *models.Admin) error {
	res, err := r.db.Collection(adminsColl).ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return translateWriteErr("replace admin", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replace admin %s: %w", a.Email, errs.ErrNotFound)
	}
	return nil
}
