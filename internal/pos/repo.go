package pos

import (
	"context"

	"github.com/google/uuid"
)

// Repository port. Two backends implement it: internal/mongo and
// internal/postgres. Save is an upsert on every backend so the optimistic
// local write and the later sync cycle converge on last-write-wins.

type TableRepo interface {
	List(ctx context.Context) ([]*Table, error)
	Save(ctx context.Context, table *Table) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderRepo interface {
	List(ctx context.Context) ([]*Order, error)
	Save(ctx context.Context, order *Order) error
}

type MenuRepo interface {
	ListItems(ctx context.Context) ([]*MenuItem, error)
	SaveItem(ctx context.Context, item *MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*Category, error)
	SaveCategory(ctx context.Context, category *Category) error
}

type CashRegisterRepo interface {
	// GetCurrentOpen returns the open register, or nil when every shift is
	// closed.
	GetCurrentOpen(ctx context.Context) (*CashRegister, error)
	Create(ctx context.Context, register *CashRegister) error
	Save(ctx context.Context, register *CashRegister) error
	// AddSale increments the register totals atomically at the store, so
	// concurrent closes from two devices cannot lose an increment.
	AddSale(ctx context.Context, id uuid.UUID, amount float64) error
}

type Repos struct {
	Tables   TableRepo
	Orders   OrderRepo
	Menu     MenuRepo
	Register CashRegisterRepo
}
