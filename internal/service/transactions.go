package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/events"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/ofx"
	"finance-tracker-backend/internal/storage"
)

// ListTransactions returns the user's transactions, newest first. Only unfiltered
// listings are cached.
func (s *Service) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]core.Transaction, error) {
	key := cache.TransactionsKey(userID)
	if filter.Unfiltered() {
		var cached []core.Transaction
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	txs, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, dataAccess("Failed to fetch transactions", err)
	}

	if filter.Unfiltered() {
		s.cache.SetJSON(ctx, key, txs, cache.TransactionsTTL)
	}
	return txs, nil
}

// CreateTransaction validates in and stores it for the user.
func (s *Service) CreateTransaction(ctx context.Context, userID string, in core.TransactionInput) (core.Transaction, error) {
	t, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkTransactionCategory(ctx, t.CategoryID, t.Type); err != nil {
		return core.Transaction{}, err
	}

	t.UserID = userID
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, dataAccess("Failed to create transaction", err)
	}

	s.invalidateUser(ctx, userID)
	s.publish(ctx, events.New(events.TransactionCreated, userID, created.ID))
	return created, nil
}

// UpdateTransaction applies the supplied fields of in. Category and type are checked against
// each other only when both are supplied.
func (s *Service) UpdateTransaction(ctx context.Context, userID, id string, in core.TransactionPatchInput) (core.Transaction, error) {
	patch, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}

	existing, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, dataAccess("Failed to fetch transaction", err)
	}
	if patch.Empty() {
		return existing, nil
	}
	if patch.NeedsCategoryCheck() {
		if err := s.checkTransactionCategory(ctx, *patch.CategoryID, *patch.Type); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.store.UpdateTransaction(ctx, userID, id, patch)
	if err != nil {
		return core.Transaction{}, dataAccess("Failed to update transaction", err)
	}

	s.invalidateUser(ctx, userID)
	s.publish(ctx, events.New(events.TransactionUpdated, userID, id))
	return updated, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return dataAccess("Failed to delete transaction", err)
	}
	s.invalidateUser(ctx, userID)
	s.publish(ctx, events.New(events.TransactionDeleted, userID, id))
	return nil
}

// ImportInput names the categories imported statement lines are filed under.
type ImportInput struct {
	IncomeCategoryID  string
	ExpenseCategoryID string
}

// ImportTransactions parses an OFX statement and stores every line for the user in one batch.
func (s *Service) ImportTransactions(ctx context.Context, userID string, r io.Reader, in ImportInput) ([]core.Transaction, error) {
	if in.IncomeCategoryID == "" || in.ExpenseCategoryID == "" {
		return nil, core.Validation("Income and expense categories are required")
	}
	if err := s.checkCategory(ctx, in.IncomeCategoryID, core.Income, "Invalid income category"); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.ExpenseCategoryID, core.Expense, "Invalid expense category"); err != nil {
		return nil, err
	}

	entries, err := ofx.Parse(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "Rejected statement",
			log.FieldOperation, log.OpImport, log.FieldUserID, userID, log.FieldError, err)
		if errors.Is(err, ofx.ErrTooLarge) {
			return nil, core.Validation("OFX file is too large")
		}
		return nil, core.Validation("Invalid OFX file")
	}
	if len(entries) == 0 {
		return nil, core.Validation("No transactions found in file")
	}

	txs := make([]core.Transaction, 0, len(entries))
	for _, e := range entries {
		categoryID := in.ExpenseCategoryID
		if e.Type == core.Income {
			categoryID = in.IncomeCategoryID
		}
		txs = append(txs, core.Transaction{
			UserID:      userID,
			Type:        e.Type,
			Amount:      e.Amount,
			Description: e.Description,
			CategoryID:  categoryID,
			Date:        e.Date,
		})
	}

	created, err := s.store.CreateTransactions(ctx, txs)
	if err != nil {
		return nil, dataAccess("Failed to import transactions", err)
	}

	s.invalidateUser(ctx, userID)
	e := events.New(events.TransactionImported, userID, "")
	e.Count = len(created)
	s.publish(ctx, e)
	return created, nil
}

// checkTransactionCategory fails with the invalid-category validation error unless the
// category exists and carries typ.
func (s *Service) checkTransactionCategory(ctx context.Context, categoryID string, typ core.TransactionType) error {
	cat, err := s.category(ctx, categoryID, "Invalid category for transaction type")
	if err != nil {
		return err
	}
	return core.CheckTransactionCategory(cat, typ)
}

func (s *Service) checkCategory(ctx context.Context, categoryID string, typ core.TransactionType, msg string) error {
	cat, err := s.category(ctx, categoryID, msg)
	if err != nil {
		return err
	}
	if cat.Type != typ {
		return core.Validation(msg)
	}
	return nil
}

// category fetches a catalog entry; a missing one is a validation error carrying msg.
func (s *Service) category(ctx context.Context, id, msg string) (core.Category, error) {
	cat, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return core.Category{}, core.Validation(msg)
	}
	if err != nil {
		return core.Category{}, dataAccess("Failed to fetch category", fmt.Errorf("category %s: %w", id, err))
	}
	return cat, nil
}
