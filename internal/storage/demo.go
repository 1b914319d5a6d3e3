package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/core"
)

// Demo account credentials created by SeedDemo.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo-password"
)

type demoTransaction struct {
	daysAgo     int
	description string
	amount      string
	categoryID  string
	typ         core.TransactionType
}

var demoTransactions = []demoTransaction{
	{28, "Monthly Salary", "3200.00", "salary", core.Income},
	{25, "Freelance: Landing Page", "850.00", "freelance", core.Income},
	{24, "Rent - Apartment", "1500.00", "rent", core.Expense},
	{22, "Utilities - Electricity", "120.45", "utilities", core.Expense},
	{20, "Groceries - Whole Foods", "96.72", "groceries", core.Expense},
	{19, "Subway Pass", "45.00", "transportation", core.Expense},
	{16, "Movie Night", "28.50", "entertainment", core.Expense},
	{14, "Groceries - Trader Joes", "64.11", "groceries", core.Expense},
	{13, "Freelance: Dashboard Charts", "600.00", "freelance", core.Income},
	{11, "Utilities - Internet", "60.00", "utilities", core.Expense},
	{8, "Concert Tickets", "140.00", "entertainment", core.Expense},
	{6, "Groceries - Costco", "132.39", "groceries", core.Expense},
	{4, "Rideshare", "22.30", "transportation", core.Expense},
	{1, "Dinner Out", "54.80", "dining", core.Expense},
}

var demoBudgets = []struct {
	categoryID string
	limit      string
}{
	{"groceries", "400.00"},
	{"entertainment", "200.00"},
	{"transportation", "150.00"},
}

// SeedDemo creates a demo user with two accounts, a month of transactions and three monthly
// budgets for the month of today. It does nothing when the demo user already exists.
// A failure part way through deletes the demo user again so the next run starts clean.
func SeedDemo(ctx context.Context, s Store, passwordHash string, today time.Time) (seeded bool, err error) {
	_, _, err = s.GetUserByEmail(ctx, DemoEmail)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return false, fmt.Errorf("checking demo user: %w", err)
	}

	u, err := s.CreateUser(ctx, core.User{Email: DemoEmail, FirstName: "Demo", LastName: "User"}, passwordHash)
	if err != nil {
		return false, fmt.Errorf("seeding demo user: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if derr := s.DeleteUser(context.WithoutCancel(ctx), u.ID); derr != nil {
			err = errors.Join(err, fmt.Errorf("removing partial demo user: %w", derr))
		}
	}()

	for _, a := range []core.Account{
		{UserID: u.ID, Name: "Everyday Checking", Type: core.Checking, Balance: decimal.RequireFromString("2450.00"), Currency: "USD"},
		{UserID: u.ID, Name: "Rainy Day Savings", Type: core.Savings, Balance: decimal.RequireFromString("8200.00"), Currency: "USD"},
	} {
		if _, err := s.CreateAccount(ctx, a); err != nil {
			return false, fmt.Errorf("seeding demo accounts: %w", err)
		}
	}

	today = core.TruncateDate(today)
	txs := make([]core.Transaction, 0, len(demoTransactions))
	for _, d := range demoTransactions {
		txs = append(txs, core.Transaction{
			UserID:      u.ID,
			Type:        d.typ,
			Amount:      decimal.RequireFromString(d.amount),
			Description: d.description,
			CategoryID:  d.categoryID,
			Date:        today.AddDate(0, 0, -d.daysAgo),
		})
	}
	if _, err := s.CreateTransactions(ctx, txs); err != nil {
		return false, fmt.Errorf("seeding demo transactions: %w", err)
	}

	month, _ := core.PeriodRange(core.Monthly, today.Format("2006-01"))
	for _, b := range demoBudgets {
		_, err := s.CreateBudget(ctx, core.Budget{
			UserID:     u.ID,
			CategoryID: b.categoryID,
			Limit:      decimal.RequireFromString(b.limit),
			Period:     core.Monthly,
			StartDate:  month.Start,
			EndDate:    month.End,
		})
		if err != nil {
			return false, fmt.Errorf("seeding demo budgets: %w", err)
		}
	}
	return true, nil
}
