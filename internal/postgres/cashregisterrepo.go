package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comandaclub/comanda/internal/pos"
)

type CashRegisterRepo struct {
	pool *pgxpool.Pool
}

func NewCashRegisterRepo(pool *pgxpool.Pool) *CashRegisterRepo {
	return &CashRegisterRepo{pool: pool}
}

func (r *CashRegisterRepo) GetCurrentOpen(ctx context.Context) (*pos.CashRegister, error) {
	var reg pos.CashRegister
	err := r.pool.QueryRow(ctx, `
		SELECT id, is_open, initial_amount, current_amount, total_sales,
		       opened_at, closed_at, opened_by, counted_amount, difference
		FROM cash_registers
		WHERE is_open = TRUE
		ORDER BY opened_at DESC
		LIMIT 1`).Scan(&reg.ID, &reg.IsOpen, &reg.InitialAmount, &reg.CurrentAmount,
		&reg.TotalSales, &reg.OpenedAt, &reg.ClosedAt, &reg.OpenedBy,
		&reg.CountedAmount, &reg.Difference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get open cash register: %w", err)
	}
	return &reg, nil
}

func (r *CashRegisterRepo) Create(ctx context.Context, register *pos.CashRegister) error {
	if register == nil {
		return fmt.Errorf("cash register is nil")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO cash_registers (id, is_open, initial_amount, current_amount,
		                            total_sales, opened_at, closed_at, opened_by,
		                            counted_amount, difference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		register.ID, register.IsOpen, register.InitialAmount, register.CurrentAmount,
		register.TotalSales, register.OpenedAt, register.ClosedAt, register.OpenedBy,
		register.CountedAmount, register.Difference)
	if err != nil {
		return fmt.Errorf("cannot create cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) Save(ctx context.Context, register *pos.CashRegister) error {
	if register == nil {
		return fmt.Errorf("cash register is nil")
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_registers
		SET is_open = $2,
		    initial_amount = $3,
		    current_amount = $4,
		    total_sales = $5,
		    opened_at = $6,
		    closed_at = $7,
		    opened_by = $8,
		    counted_amount = $9,
		    difference = $10
		WHERE id = $1`,
		register.ID, register.IsOpen, register.InitialAmount, register.CurrentAmount,
		register.TotalSales, register.OpenedAt, register.ClosedAt, register.OpenedBy,
		register.CountedAmount, register.Difference)
	if err != nil {
		return fmt.Errorf("cannot save cash register: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cash register not found")
	}
	return nil
}

// AddSale is a single UPDATE so concurrent closes from two devices cannot
// lose an increment to a read-modify-write race.
func (r *CashRegisterRepo) AddSale(ctx context.Context, id uuid.UUID, amount float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cash_registers
		SET current_amount = current_amount + $2,
		    total_sales = total_sales + $2
		WHERE id = $1 AND is_open = TRUE`,
		id, amount)
	if err != nil {
		return fmt.Errorf("cannot record sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no open cash register with id %s", id)
	}
	return nil
}
