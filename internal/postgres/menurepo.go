package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/comandaclub/comanda/internal/pos"
)

type MenuRepo struct {
	pool *pgxpool.Pool
}

func NewMenuRepo(pool *pgxpool.Pool) *MenuRepo {
	return &MenuRepo{pool: pool}
}

func (r *MenuRepo) ListItems(ctx context.Context) ([]*pos.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, category, description, available,
		       preparation_time, is_spicy, is_vegetarian, created_at, updated_at
		FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("cannot list menu items: %w", err)
	}
	defer rows.Close()

	var result []*pos.MenuItem
	for rows.Next() {
		var m pos.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Price, &m.Category, &m.Description,
			&m.Available, &m.PreparationTime, &m.IsSpicy, &m.IsVegetarian,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("cannot scan menu item: %w", err)
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}

func (r *MenuRepo) SaveItem(ctx context.Context, item *pos.MenuItem) error {
	if item == nil {
		return fmt.Errorf("menu item is nil")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, price, category, description, available,
		                        preparation_time, is_spicy, is_vegetarian,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    price = EXCLUDED.price,
		    category = EXCLUDED.category,
		    description = EXCLUDED.description,
		    available = EXCLUDED.available,
		    preparation_time = EXCLUDED.preparation_time,
		    is_spicy = EXCLUDED.is_spicy,
		    is_vegetarian = EXCLUDED.is_vegetarian,
		    updated_at = EXCLUDED.updated_at`,
		item.ID, item.Name, item.Price, item.Category, item.Description,
		item.Available, item.PreparationTime, item.IsSpicy, item.IsVegetarian,
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("cannot save menu item: %w", err)
	}
	return nil
}

func (r *MenuRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cannot delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu item not found")
	}
	return nil
}

func (r *MenuRepo) ListCategories(ctx context.Context) ([]*pos.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, position FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("cannot list categories: %w", err)
	}
	defer rows.Close()

	var result []*pos.Category
	for rows.Next() {
		var c pos.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("cannot scan category: %w", err)
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

func (r *MenuRepo) SaveCategory(ctx context.Context, category *pos.Category) error {
	if category == nil {
		return fmt.Errorf("category is nil")
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (id, name, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    position = EXCLUDED.position`,
		category.ID, category.Name, category.Position)
	if err != nil {
		return fmt.Errorf("cannot save category: %w", err)
	}
	return nil
}
