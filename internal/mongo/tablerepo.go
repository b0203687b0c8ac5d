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

// Only number, capacity and status travel to the remote store. Staging
// stays device-local; the sync merge protects it.
type tableDoc struct {
	ID       uuid.UUID `bson:"_id"`
	Number   int       `bson:"number"`
	Capacity int       `bson:"capacity"`
	Status   string    `bson:"status"`
}

type TableRepo struct {
	collection *mongo.Collection
}

func NewTableRepo(db *mongo.Database) *TableRepo {
	return &TableRepo{
		collection: db.Collection("tables"),
	}
}

func (r *TableRepo) List(ctx context.Context) ([]*pos.Table, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []tableDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode tables: %w", err)
	}

	result := make([]*pos.Table, 0, len(docs))
	for _, d := range docs {
		result = append(result, &pos.Table{
			ID:       d.ID,
			Number:   d.Number,
			Capacity: d.Capacity,
			Status:   d.Status,
		})
	}
	return result, nil
}

func (r *TableRepo) Save(ctx context.Context, table *pos.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	doc := tableDoc{
		ID:       table.ID,
		Number:   table.Number,
		Capacity: table.Capacity,
		Status:   table.Status,
	}

	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot save table: %w", err)
	}
	return nil
}

func (r *TableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete table: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("table not found")
	}
	return nil
}
