package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(typ TransactionType, amount, categoryID, date string) Transaction {
	return Transaction{
		UserID:     "u1",
		Type:       typ,
		Amount:     dec(amount),
		CategoryID: categoryID,
		Category:   Category{ID: categoryID, Name: categoryID, Type: typ},
		Date:       day(date),
	}
}

func TestBuildReport_MonthlyScenario(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "50", "catA", "2024-02-10"),
		tx(Expense, "30", "catB", "2024-02-15"),
		tx(Income, "200", "catC", "2024-02-01"),
	}
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	report := BuildReport("u1", Monthly, "2024-02", txs, now)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "u1", report.UserID)
	assert.Equal(t, Monthly, report.Type)
	assert.Equal(t, "2024-02", report.Period)
	assert.True(t, report.TotalIncome.Equal(dec("200")), "income = %s", report.TotalIncome)
	assert.True(t, report.TotalExpenses.Equal(dec("80")), "expenses = %s", report.TotalExpenses)
	assert.True(t, report.NetIncome.Equal(dec("120")), "net = %s", report.NetIncome)
	assert.Equal(t, now, report.GeneratedAt)

	require.Len(t, report.CategoryBreakdown, 2)
	assert.Equal(t, "catA", report.CategoryBreakdown[0].Category.ID)
	assert.True(t, report.CategoryBreakdown[0].Amount.Equal(dec("50")))
	assert.True(t, report.CategoryBreakdown[0].Percentage.Equal(dec("62.5")))
	assert.Equal(t, "catB", report.CategoryBreakdown[1].Category.ID)
	assert.True(t, report.CategoryBreakdown[1].Amount.Equal(dec("30")))
	assert.True(t, report.CategoryBreakdown[1].Percentage.Equal(dec("37.5")))
}

func TestBuildReport_Invariants(t *testing.T) {
	sets := map[string][]Transaction{
		"empty": nil,
		"income only": {
			tx(Income, "1000", "salary", "2024-01-05"),
		},
		"thirds": {
			tx(Expense, "10", "a", "2024-01-01"),
			tx(Expense, "10", "b", "2024-01-02"),
			tx(Expense, "10", "c", "2024-01-03"),
		},
		"negative net": {
			tx(Income, "19.99", "salary", "2024-01-01"),
			tx(Expense, "120.45", "rent", "2024-01-02"),
			tx(Expense, "0.01", "misc", "2024-01-03"),
			tx(Expense, "64.11", "rent", "2024-01-04"),
		},
	}

	for name, txs := range sets {
		t.Run(name, func(t *testing.T) {
			r := BuildReport("u1", Monthly, "2024-01", txs, time.Now())

			assert.True(t, r.TotalIncome.Sub(r.TotalExpenses).Equal(r.NetIncome))

			sumAmount, sumPct := decimal.Zero, decimal.Zero
			for _, line := range r.CategoryBreakdown {
				sumAmount = sumAmount.Add(line.Amount)
				sumPct = sumPct.Add(line.Percentage)
				if r.TotalExpenses.IsZero() {
					assert.True(t, line.Percentage.IsZero())
				}
			}
			assert.True(t, sumAmount.Equal(r.TotalExpenses), "breakdown sum %s != %s", sumAmount, r.TotalExpenses)
			if r.TotalExpenses.IsPositive() {
				assert.InDelta(t, 100, sumPct.InexactFloat64(), 1e-9)
			}

			for i := 1; i < len(r.CategoryBreakdown); i++ {
				assert.False(t, r.CategoryBreakdown[i].Amount.GreaterThan(r.CategoryBreakdown[i-1].Amount),
					"breakdown not sorted at %d", i)
			}
		})
	}
}

func TestExpenseBreakdown_StableTies(t *testing.T) {
	txs := []Transaction{
		tx(Expense, "5", "first", "2024-01-01"),
		tx(Expense, "20", "big", "2024-01-02"),
		tx(Expense, "5", "second", "2024-01-03"),
		tx(Expense, "5", "third", "2024-01-04"),
	}

	breakdown := ExpenseBreakdown(txs, dec("35"))

	ids := make([]string, 0, len(breakdown))
	for _, line := range breakdown {
		ids = append(ids, line.Category.ID)
	}
	assert.Equal(t, []string{"big", "first", "second", "third"}, ids)
}

func TestExpenseBreakdown_ZeroTotal(t *testing.T) {
	breakdown := ExpenseBreakdown([]Transaction{tx(Income, "10", "salary", "2024-01-01")}, decimal.Zero)
	assert.Empty(t, breakdown)
	assert.NotNil(t, breakdown)
}

func TestExpenseBreakdown_FillsMissingCategory(t *testing.T) {
	t1 := tx(Expense, "10", "groceries", "2024-01-01")
	t1.Category = Category{}

	breakdown := ExpenseBreakdown([]Transaction{t1}, dec("10"))

	require.Len(t, breakdown, 1)
	assert.Equal(t, "groceries", breakdown[0].Category.ID)
	assert.True(t, breakdown[0].Percentage.Equal(dec("100")))
}

func TestBudgetSpent(t *testing.T) {
	budget := Budget{
		UserID:     "u1",
		CategoryID: "food",
		StartDate:  day("2024-02-01"),
		EndDate:    day("2024-02-29"),
	}

	other := tx(Expense, "1000", "food", "2024-02-10")
	other.UserID = "u2"

	txs := []Transaction{
		tx(Expense, "12.50", "food", "2024-02-01"),
		tx(Expense, "7.50", "food", "2024-02-29"),
		tx(Expense, "99", "food", "2024-03-01"),
		tx(Expense, "99", "food", "2024-01-31"),
		tx(Expense, "99", "rent", "2024-02-10"),
		tx(Income, "99", "food", "2024-02-10"),
		other,
	}

	assert.True(t, BudgetSpent(budget, txs).Equal(dec("20")))
	assert.True(t, BudgetSpent(budget, nil).Equal(decimal.Zero))
}

func TestBuildAnalytics(t *testing.T) {
	a := BuildAnalytics([]Transaction{
		tx(Income, "3200", "salary", "2024-01-01"),
		tx(Expense, "1500", "rent", "2024-01-02"),
		tx(Expense, "500", "food", "2024-01-03"),
	})

	assert.Equal(t, 3, a.Summary.TransactionCount)
	assert.True(t, a.Summary.TotalIncome.Equal(dec("3200")))
	assert.True(t, a.Summary.TotalExpenses.Equal(dec("2000")))
	require.Len(t, a.ByCategory, 2)
	assert.Equal(t, "rent", a.ByCategory[0].Category.ID)
	assert.True(t, a.ByCategory[0].Percentage.Equal(dec("75")))
}
