package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/storage"
)

const transactionColumns = `
	t.id, t.user_id, t.type, t.amount, t.description, t.category_id, t.date, t.created_at,
	c.id, c.name, c.color, c.icon, c.type`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var t core.Transaction
	var icon string
	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.CategoryID, &t.Date, &t.CreatedAt,
		&t.Category.ID, &t.Category.Name, &t.Category.Color, &icon, &t.Category.Type,
	)
	t.Category.Icon = core.ResolveIcon(icon)
	return t, err
}

func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]core.Transaction, error) {
	var (
		where = []string{"t.user_id = $1"}
		args  = []any{userID}
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.CategoryID != "" {
		add("t.category_id = $%d", filter.CategoryID)
	}
	if filter.Type != "" {
		add("t.type = $%d", string(filter.Type))
	}
	if filter.DateFrom != nil {
		add("t.date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("t.date <= $%d", *filter.DateTo)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY t.created_at DESC, t.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.DataAccess("Failed to fetch transactions", fmt.Errorf("query transactions: %w", err))
	}
	defer rows.Close()

	// ensure empty array ([]) instead of null when no rows
	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, core.DataAccess("Failed to fetch transactions", fmt.Errorf("scan transaction: %w", err))
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch transactions", err)
	}
	return transactions, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.getTransaction(ctx, s.db, userID, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getTransaction(ctx context.Context, q queryer, userID, id string) (core.Transaction, error) {
	row := q.QueryRowContext(ctx, `SELECT `+transactionColumns+`
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1 AND t.user_id = $2`, id, userID)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.NotFound("Transaction not found")
	}
	if err != nil {
		return core.Transaction{}, core.DataAccess("Failed to fetch transaction", fmt.Errorf("get transaction %s: %w", id, err))
	}
	return t, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.CreateTransactions(ctx, []core.Transaction{t})
	if err != nil {
		return core.Transaction{}, err
	}
	return created[0], nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	created := make([]core.Transaction, 0, len(txs))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range txs {
			var id string
			err := tx.QueryRowContext(ctx, `
				INSERT INTO transactions (user_id, type, amount, description, category_id, date)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				t.UserID, string(t.Type), t.Amount, t.Description, t.CategoryID, core.TruncateDate(t.Date),
			).Scan(&id)
			if err != nil {
				return err
			}

			saved, err := s.getTransaction(ctx, tx, t.UserID, id)
			if err != nil {
				return err
			}
			created = append(created, saved)
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, core.Validation("Invalid category for transaction type")
		}
		if isInvalidValue(err) {
			return nil, core.Validation("Invalid amount")
		}
		var coreErr *core.Error
		if errors.As(err, &coreErr) {
			return nil, err
		}
		return nil, core.DataAccess("Failed to create transaction", fmt.Errorf("insert transactions: %w", err))
	}
	return created, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	if patch.Empty() {
		return s.GetTransaction(ctx, userID, id)
	}

	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Type != nil {
		set("type", string(*patch.Type))
	}
	if patch.Amount != nil {
		set("amount", *patch.Amount)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.Date != nil {
		set("date", core.TruncateDate(*patch.Date))
	}
	args = append(args, id, userID)

	query := fmt.Sprintf(`UPDATE transactions SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Transaction{}, core.Validation("Invalid category for transaction type")
		}
		if isInvalidValue(err) {
			return core.Transaction{}, core.Validation("Invalid amount")
		}
		return core.Transaction{}, core.DataAccess("Failed to update transaction", fmt.Errorf("update transaction %s: %w", id, err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, core.NotFound("Transaction not found")
	}
	return s.GetTransaction(ctx, userID, id)
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return core.DataAccess("Failed to delete transaction", fmt.Errorf("delete transaction %s: %w", id, err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NotFound("Transaction not found")
	}
	return nil
}
