package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a transaction or the kind of a category.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the enumerated transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Period is the length of a budget or report window.
type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Valid reports whether p is monthly or yearly.
func (p Period) Valid() bool {
	return p == Monthly || p == Yearly
}

// AccountType classifies a user's account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Credit     AccountType = "credit"
	Investment AccountType = "investment"
)

// Category represents an entry of the global category catalog
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Icon  Icon            `json:"icon"`
	Type  TransactionType `json:"type"`
}

// Transaction represents a financial transaction owned by a single user
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Budget represents a spending limit for an expense category over a date range.
// Spent is derived at read time and is nil when it could not be computed.
type Budget struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	CategoryID string           `json:"categoryId"`
	Category   Category         `json:"category"`
	Limit      decimal.Decimal  `json:"limit"`
	Spent      *decimal.Decimal `json:"spent,omitempty"`
	Period     Period           `json:"period"`
	StartDate  time.Time        `json:"startDate"`
	EndDate    time.Time        `json:"endDate"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Range returns the budget's active date range.
func (b Budget) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// Account represents a user's bank, credit or investment account
type Account struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
}

// User represents a registered user
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryAmount is one line of a per-category expense breakdown
type CategoryAmount struct {
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Report is computed on demand and never persisted
type Report struct {
	ID                string           `json:"id"`
	UserID            string           `json:"userId"`
	Type              Period           `json:"type"`
	Period            string           `json:"period"`
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	TotalExpenses     decimal.Decimal  `json:"totalExpenses"`
	NetIncome         decimal.Decimal  `json:"netIncome"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	GeneratedAt       time.Time        `json:"generatedAt"`
}

// AnalyticsSummary contains summary statistics for analytics
type AnalyticsSummary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TransactionCount int             `json:"transactionCount"`
}

// Analytics contains all dashboard analytics data
type Analytics struct {
	Summary    AnalyticsSummary `json:"summary"`
	ByCategory []CategoryAmount `json:"byCategory"`
}
