package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BudgetSpent sums the user's expense transactions in the budget's category and date range.
func BudgetSpent(b Budget, txs []Transaction) decimal.Decimal {
	spent := decimal.Zero
	rng := b.Range()
	for _, t := range txs {
		if t.UserID != b.UserID || t.CategoryID != b.CategoryID || t.Type != Expense || !rng.Contains(t.Date) {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	return spent
}

// Totals returns the income and expense sums of txs.
func Totals(txs []Transaction) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

// ExpenseBreakdown groups expense transactions by category and computes each group's share
// of totalExpenses. Groups are sorted by amount descending; ties keep first-seen order.
// Percentages are zero when totalExpenses is zero.
func ExpenseBreakdown(txs []Transaction, totalExpenses decimal.Decimal) []CategoryAmount {
	index := make(map[string]int)
	breakdown := make([]CategoryAmount, 0)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		i, ok := index[t.CategoryID]
		if !ok {
			cat := t.Category
			if cat.ID == "" {
				cat.ID = t.CategoryID
			}
			i = len(breakdown)
			index[t.CategoryID] = i
			breakdown = append(breakdown, CategoryAmount{Category: cat, Amount: decimal.Zero})
		}
		breakdown[i].Amount = breakdown[i].Amount.Add(t.Amount)
	}

	for i := range breakdown {
		if totalExpenses.IsZero() {
			breakdown[i].Percentage = decimal.Zero
			continue
		}
		breakdown[i].Percentage = breakdown[i].Amount.Mul(hundred).Div(totalExpenses)
	}

	sort.SliceStable(breakdown, func(a, b int) bool {
		return breakdown[a].Amount.GreaterThan(breakdown[b].Amount)
	})
	return breakdown
}

// BuildReport reduces the transactions of a period into a report.
func BuildReport(userID string, typ Period, period string, txs []Transaction, now time.Time) Report {
	income, expenses := Totals(txs)
	return Report{
		ID:                NewReportID(),
		UserID:            userID,
		Type:              typ,
		Period:            period,
		TotalIncome:       income,
		TotalExpenses:     expenses,
		NetIncome:         income.Sub(expenses),
		CategoryBreakdown: ExpenseBreakdown(txs, expenses),
		GeneratedAt:       now.UTC(),
	}
}

// BuildAnalytics summarises txs for the dashboard.
func BuildAnalytics(txs []Transaction) Analytics {
	income, expenses := Totals(txs)
	return Analytics{
		Summary: AnalyticsSummary{
			TotalIncome:      income,
			TotalExpenses:    expenses,
			TransactionCount: len(txs),
		},
		ByCategory: ExpenseBreakdown(txs, expenses),
	}
}
