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

type CashRegisterRepo struct {
	collection *mongo.Collection
}

func NewCashRegisterRepo(db *mongo.Database) *CashRegisterRepo {
	return &CashRegisterRepo{
		collection: db.Collection("cash_registers"),
	}
}

func (r *CashRegisterRepo) GetCurrentOpen(ctx context.Context) (*pos.CashRegister, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "opened_at", Value: -1}})

	var register pos.CashRegister
	err := r.collection.FindOne(ctx, bson.M{"is_open": true}, opts).Decode(&register)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get open cash register: %w", err)
	}
	return &register, nil
}

func (r *CashRegisterRepo) Create(ctx context.Context, register *pos.CashRegister) error {
	if register == nil {
		return fmt.Errorf("cash register is nil")
	}

	if _, err := r.collection.InsertOne(ctx, register); err != nil {
		return fmt.Errorf("cannot create cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) Save(ctx context.Context, register *pos.CashRegister) error {
	if register == nil {
		return fmt.Errorf("cash register is nil")
	}

	filter := bson.M{"_id": register.ID}
	update := bson.M{"$set": register}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot save cash register: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cash register not found")
	}
	return nil
}

// AddSale increments the register totals server-side. Two devices closing
// orders in the same poll window both land their increments; the classic
// read-modify-write race cannot lose a sale here.
func (r *CashRegisterRepo) AddSale(ctx context.Context, id uuid.UUID, amount float64) error {
	filter := bson.M{"_id": id, "is_open": true}
	update := bson.M{"$inc": bson.M{
		"current_amount": amount,
		"total_sales":    amount,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot record sale: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no open cash register with id %s", id)
	}
	return nil
}
