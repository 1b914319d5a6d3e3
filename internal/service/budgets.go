package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/events"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/storage"
)

// ListBudgets returns the user's budgets with their spent amount. A budget whose spend
// cannot be computed is returned with Spent unset; the listing itself still succeeds.
func (s *Service) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	key := cache.BudgetsKey(userID)
	var cached []core.Budget
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, dataAccess("Failed to fetch budgets", err)
	}

	if complete := s.fillSpent(ctx, userID, budgets); complete {
		s.cache.SetJSON(ctx, key, budgets, cache.BudgetsTTL)
	}
	return budgets, nil
}

// fillSpent derives Spent for every budget concurrently. It reports whether all of them resolved.
func (s *Service) fillSpent(ctx context.Context, userID string, budgets []core.Budget) bool {
	failed := make([]bool, len(budgets))

	var g errgroup.Group
	g.SetLimit(s.budgetConcurrency)
	for i := range budgets {
		i := i
		g.Go(func() error {
			spent, err := s.budgetSpent(ctx, userID, budgets[i])
			if err != nil {
				failed[i] = true
				s.logger.WarnContext(ctx, "Budget spend unavailable",
					log.FieldUserID, userID, log.FieldEntityID, budgets[i].ID, log.FieldError, err)
				return nil
			}
			budgets[i].Spent = &spent
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range failed {
		if f {
			return false
		}
	}
	return true
}

func (s *Service) budgetSpent(ctx context.Context, userID string, b core.Budget) (decimal.Decimal, error) {
	filter := storage.RangeFilter(b.Range())
	filter.CategoryID = b.CategoryID
	filter.Type = core.Expense

	txs, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return decimal.Zero, err
	}
	b.UserID = userID
	return core.BudgetSpent(b, txs), nil
}

// CreateBudget validates in and stores it unless an overlapping budget exists for the
// same category and period.
func (s *Service) CreateBudget(ctx context.Context, userID string, in core.BudgetInput) (core.Budget, error) {
	b, err := in.Validate()
	if err != nil {
		return core.Budget{}, err
	}

	cat, err := s.category(ctx, b.CategoryID, "Invalid expense category")
	if err != nil {
		return core.Budget{}, err
	}
	if err := core.CheckBudgetCategory(cat); err != nil {
		return core.Budget{}, err
	}

	_, err = s.store.FindOverlappingBudget(ctx, userID, b.CategoryID, b.Period, b.Range())
	switch {
	case err == nil:
		return core.Budget{}, core.Conflict("Budget already exists for this category and period")
	case !errors.Is(err, core.ErrNotFound):
		return core.Budget{}, dataAccess("Failed to check existing budgets", err)
	}

	b.UserID = userID
	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, dataAccess("Failed to create budget", err)
	}

	zero := decimal.Zero
	created.Spent = &zero

	s.cache.Invalidate(ctx, cache.BudgetsKey(userID))
	s.publish(ctx, events.New(events.BudgetCreated, userID, created.ID))
	return created, nil
}
