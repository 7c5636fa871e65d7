package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

// InsertProduct persists a new product and fills in its store identity.
// Sequential-code collisions surface as errs.ErrDuplicateCode.
func (r *Repository) InsertProduct(ctx context.Context, p *models.Product) error {
	res, err := r.db.Collection(productsColl).InsertOne(ctx, p)
	if err != nil {
		return translateWriteErr("insert product", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// ListProducts returns every product, newest first.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.db.Collection(productsColl).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// FindProductByCode resolves a product by its human-readable code.
func (r *Repository) FindProductByCode(ctx context.Context, code string) (*models.Product, error) {
	var p models.Product
	err := r.db.Collection(productsColl).FindOne(ctx, bson.M{"productId": code}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("product %s: %w", code, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", code, err)
	}
	return &p, nil
}

// FindProductByID resolves a product by its store identity.
func (r *Repository) FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.db.Collection(productsColl).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return &p, nil
}

// ReplaceProduct overwrites the stored product identified by p.ID.
func (r *Repository) ReplaceProduct(ctx context.Context, p *models.Product) error {
	res, err := r.db.Collection(productsColl).ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return translateWriteErr("replace product", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replace product %s: %w", p.ProductID, errs.ErrNotFound)
	}
	return nil
}

// SetProductAvailability writes the derived availability label as a field-level
// update so concurrent counter changes on the same product are never
// overwritten. zeroQuantity additionally forces the quantity to zero, for
// expired stock.
func (r *Repository) SetProductAvailability(ctx context.Context, id primitive.ObjectID, availability string, zeroQuantity bool) error {
	set := bson.M{"availability": availability}
	if zeroQuantity {
		set["quantity"] = 0
	}

	res, err := r.db.Collection(productsColl).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("set product availability: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("set product availability %s: %w", id.Hex(), errs.ErrNotFound)
	}
	return nil
}

// MaxProductCode returns the greatest productId currently in the store, or the
// empty string when no product exists.
func (r *Repository) MaxProductCode(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "productId", Value: -1}})
	var p models.Product
	err := r.db.Collection(productsColl).FindOne(ctx, bson.D{}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("max product code: %w", err)
	}
	return p.ProductID, nil
}

// ApplyOrder decrements the product quantity and increments its sold counter as
// one conditional write: the update only matches while quantity >= qty, so two
// concurrent orders cannot oversell. Returns the post-update product, or
// errs.ErrNotFound when the condition did not match.
func (r *Repository) ApplyOrder(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"quantity": -qty, "sold": qty}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Product
	err := r.db.Collection(productsColl).FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("apply order on %s: %w", id.Hex(), errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("apply order on %s: %w", id.Hex(), err)
	}
	return &p, nil
}
