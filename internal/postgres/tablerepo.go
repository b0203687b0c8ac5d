package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comandaclub/comanda/internal/pos"
)

type TableRepo struct {
	pool *pgxpool.Pool
}

func NewTableRepo(pool *pgxpool.Pool) *TableRepo {
	return &TableRepo{pool: pool}
}

func (r *TableRepo) List(ctx context.Context) ([]*pos.Table, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, number, capacity, status FROM tables ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("cannot list tables: %w", err)
	}
	defer rows.Close()

	var result []*pos.Table
	for rows.Next() {
		var t pos.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Status); err != nil {
			return nil, fmt.Errorf("cannot scan table: %w", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

func (r *TableRepo) Save(ctx context.Context, table *pos.Table) error {
	if table == nil {
		return fmt.Errorf("table is nil")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO tables (id, number, capacity, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET number = EXCLUDED.number,
		    capacity = EXCLUDED.capacity,
		    status = EXCLUDED.status`,
		table.ID, table.Number, table.Capacity, table.Status)
	if err != nil {
		return fmt.Errorf("cannot save table: %w", err)
	}
	return nil
}

func (r *TableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cannot delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table not found")
	}
	return nil
}
