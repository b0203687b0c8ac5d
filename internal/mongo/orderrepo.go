package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/comandaclub/comanda/internal/pos"
)

// The item list is persisted as one JSON blob, matching the historical
// backends. There are no per-item sub-records to update partially.
type orderDoc struct {
	ID            uuid.UUID `bson:"_id"`
	TableNumber   int       `bson:"table_number"`
	Items         string    `bson:"items"`
	Total         float64   `bson:"total"`
	Status        string    `bson:"status"`
	Timestamp     time.Time `bson:"timestamp"`
	PaymentMethod string    `bson:"payment_method,omitempty"`
	WaiterID      string    `bson:"waiter_id"`
	WaiterName    string    `bson:"waiter_name"`
	CustomerCount int       `bson:"customer_count"`
	Discount      float64   `bson:"discount,omitempty"`
	Tip           float64   `bson:"tip,omitempty"`
}

type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{
		collection: db.Collection("orders"),
	}
}

func (r *OrderRepo) List(ctx context.Context) ([]*pos.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode orders: %w", err)
	}

	result := make([]*pos.Order, 0, len(docs))
	for _, d := range docs {
		order, err := fromOrderDoc(d)
		if err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, nil
}

func (r *OrderRepo) Save(ctx context.Context, order *pos.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	doc, err := toOrderDoc(order)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("cannot save order: %w", err)
	}
	return nil
}

func toOrderDoc(order *pos.Order) (orderDoc, error) {
	items, err := pos.MarshalItems(order.Items)
	if err != nil {
		return orderDoc{}, err
	}
	return orderDoc{
		ID:            order.ID,
		TableNumber:   order.TableNumber,
		Items:         items,
		Total:         order.Total,
		Status:        order.Status,
		Timestamp:     order.Timestamp,
		PaymentMethod: order.PaymentMethod,
		WaiterID:      order.WaiterID,
		WaiterName:    order.WaiterName,
		CustomerCount: order.CustomerCount,
		Discount:      order.Discount,
		Tip:           order.Tip,
	}, nil
}

func fromOrderDoc(d orderDoc) (*pos.Order, error) {
	items, err := pos.UnmarshalItems(d.Items)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}
	return &pos.Order{
		ID:            d.ID,
		TableNumber:   d.TableNumber,
		Items:         items,
		Total:         d.Total,
		Status:        d.Status,
		Timestamp:     d.Timestamp,
		PaymentMethod: d.PaymentMethod,
		WaiterID:      d.WaiterID,
		WaiterName:    d.WaiterName,
		CustomerCount: d.CustomerCount,
		Discount:      d.Discount,
		Tip:           d.Tip,
	}, nil
}
