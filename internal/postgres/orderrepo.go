package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comandaclub/comanda/internal/pos"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) List(ctx context.Context) ([]*pos.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, table_number, items, total, status, ts, payment_method,
		       waiter_id, waiter_name, customer_count, discount, tip
		FROM orders ORDER BY ts`)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	defer rows.Close()

	var result []*pos.Order
	for rows.Next() {
		var o pos.Order
		var items string
		if err := rows.Scan(&o.ID, &o.TableNumber, &items, &o.Total, &o.Status,
			&o.Timestamp, &o.PaymentMethod, &o.WaiterID, &o.WaiterName,
			&o.CustomerCount, &o.Discount, &o.Tip); err != nil {
			return nil, fmt.Errorf("cannot scan order: %w", err)
		}
		o.Items, err = pos.UnmarshalItems(items)
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", o.ID, err)
		}
		result = append(result, &o)
	}
	return result, rows.Err()
}

func (r *OrderRepo) Save(ctx context.Context, order *pos.Order) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}

	items, err := pos.MarshalItems(order.Items)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO orders (id, table_number, items, total, status, ts,
		                    payment_method, waiter_id, waiter_name,
		                    customer_count, discount, tip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET table_number = EXCLUDED.table_number,
		    items = EXCLUDED.items,
		    total = EXCLUDED.total,
		    status = EXCLUDED.status,
		    ts = EXCLUDED.ts,
		    payment_method = EXCLUDED.payment_method,
		    waiter_id = EXCLUDED.waiter_id,
		    waiter_name = EXCLUDED.waiter_name,
		    customer_count = EXCLUDED.customer_count,
		    discount = EXCLUDED.discount,
		    tip = EXCLUDED.tip`,
		order.ID, order.TableNumber, items, order.Total, order.Status,
		order.Timestamp, order.PaymentMethod, order.WaiterID, order.WaiterName,
		order.CustomerCount, order.Discount, order.Tip)
	if err != nil {
		return fmt.Errorf("cannot save order: %w", err)
	}
	return nil
}
