package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comandaclub/comanda/internal/pos"
)

type MenuRepo struct {
	items      *mongo.Collection
	categories *mongo.Collection
}

func NewMenuRepo(db *mongo.Database) *MenuRepo {
	return &MenuRepo{
		items:      db.Collection("menu_items"),
		categories: db.Collection("categories"),
	}
}

func (r *MenuRepo) ListItems(ctx context.Context) ([]*pos.MenuItem, error) {
	cursor, err := r.items.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list menu items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*pos.MenuItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode menu items: %w", err)
	}
	return result, nil
}

func (r *MenuRepo) SaveItem(ctx context.Context, item *pos.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}

	filter := bson.M{"_id": item.ID}
	update := bson.M{"$set": item}
	opts := options.Update().SetUpsert(true)

	if _, err := r.items.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot save menu item: %w", err)
	}
	return nil
}

func (r *MenuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete menu item: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("menu item not found")
	}
	return nil
}

func (r *MenuRepo) ListCategories(ctx context.Context) ([]*pos.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*pos.Category
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode categories: %w", err)
	}
	return result, nil
}

func (r *MenuRepo) SaveCategory(ctx context.Context, category *pos.Category) error {
	if category == nil {
		return fmt.Errorf("category is nil")
	}

	filter := bson.M{"_id": category.ID}
	update := bson.M{"$set": category}
	opts := options.Update().SetUpsert(true)

	if _, err := r.categories.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot save category: %w", err)
	}
	return nil
}
