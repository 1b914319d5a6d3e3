package postgres

import (
	"context"
	"fmt"

	"finance-tracker-backend/internal/core"
)

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, balance, currency, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, core.DataAccess("Failed to fetch accounts", fmt.Errorf("query accounts: %w", err))
	}
	defer rows.Close()

	accounts := make([]core.Account, 0)
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.CreatedAt); err != nil {
			return nil, core.DataAccess("Failed to fetch accounts", fmt.Errorf("scan account: %w", err))
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch accounts", err)
	}
	return accounts, nil
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO accounts (user_id, name, type, balance, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		a.UserID, a.Name, string(a.Type), a.Balance, a.Currency,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return core.Account{}, core.DataAccess("Failed to create account", fmt.Errorf("insert account: %w", err))
	}
	return a, nil
}
