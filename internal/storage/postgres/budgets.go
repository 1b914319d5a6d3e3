package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finance-tracker-backend/internal/core"
)

const budgetColumns = `
	b.id, b.user_id, b.category_id, b.limit_amount, b.period, b.start_date, b.end_date, b.created_at,
	c.id, c.name, c.color, c.icon, c.type`

func scanBudget(row scanner) (core.Budget, error) {
	var b core.Budget
	var icon string
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.StartDate, &b.EndDate, &b.CreatedAt,
		&b.Category.ID, &b.Category.Name, &b.Category.Color, &icon, &b.Category.Type,
	)
	b.Category.Icon = core.ResolveIcon(icon)
	return b, err
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC`, userID)
	if err != nil {
		return nil, core.DataAccess("Failed to fetch budgets", fmt.Errorf("query budgets: %w", err))
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, core.DataAccess("Failed to fetch budgets", fmt.Errorf("scan budget: %w", err))
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch budgets", err)
	}
	return budgets, nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO budgets (user_id, category_id, limit_amount, period, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		b.UserID, b.CategoryID, b.Limit, string(b.Period), b.StartDate, b.EndDate,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Budget{}, core.Validation("Invalid expense category")
		}
		if isInvalidValue(err) {
			return core.Budget{}, core.Validation("Invalid limit")
		}
		return core.Budget{}, core.DataAccess("Failed to create budget", fmt.Errorf("insert budget: %w", err))
	}

	created, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = $1`, id))
	if err != nil {
		return core.Budget{}, core.DataAccess("Failed to create budget", fmt.Errorf("reload budget %s: %w", id, err))
	}
	return created, nil
}

func (s *Store) FindOverlappingBudget(ctx context.Context, userID, categoryID string, period core.Period, r core.DateRange) (core.Budget, error) {
	b, err := scanBudget(s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+`
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND b.category_id = $2 AND b.period = $3
		  AND b.end_date >= $4 AND b.start_date <= $5
		ORDER BY b.created_at
		LIMIT 1`,
		userID, categoryID, string(period), r.Start, r.End))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.NotFound("Budget not found")
	}
	if err != nil {
		return core.Budget{}, core.DataAccess("Failed to check existing budgets", fmt.Errorf("find overlapping budget: %w", err))
	}
	return b, nil
}
