package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker-backend/internal/core"
)

func scanCategory(row scanner) (core.Category, error) {
	var c core.Category
	var icon string
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Color, &icon)
	c.Icon = core.ResolveIcon(icon)
	return c, err
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, type, color, icon FROM categories ORDER BY name`)
	if err != nil {
		return nil, core.DataAccess("Failed to fetch categories", fmt.Errorf("query categories: %w", err))
	}
	defer rows.Close()

	categories := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, core.DataAccess("Failed to fetch categories", fmt.Errorf("scan category: %w", err))
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch categories", err)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (core.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT id, name, type, color, icon FROM categories WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NotFound("Category not found")
	}
	if err != nil {
		return core.Category{}, core.DataAccess("Failed to fetch category", fmt.Errorf("get category %s: %w", id, err))
	}
	return c, nil
}
