// Package storage defines the persistence ports used by the services.
package storage

import (
	"context"
	"time"

	"finance-tracker-backend/internal/core"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no filter".
type TransactionFilter struct {
	CategoryID string
	Type       core.TransactionType
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Unfiltered reports whether the filter selects every transaction of the user.
func (f TransactionFilter) Unfiltered() bool {
	return f.CategoryID == "" && f.Type == "" && f.DateFrom == nil && f.DateTo == nil
}

// Matches reports whether t passes the filter.
func (f TransactionFilter) Matches(t core.Transaction) bool {
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	date := core.TruncateDate(t.Date)
	if f.DateFrom != nil && date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && date.After(*f.DateTo) {
		return false
	}
	return true
}

// RangeFilter selects every transaction dated within r.
func RangeFilter(r core.DateRange) TransactionFilter {
	start, end := r.Start, r.End
	return TransactionFilter{DateFrom: &start, DateTo: &end}
}

type TransactionStore interface {
	// ListTransactions returns the user's transactions, newest first.
	ListTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	// CreateTransactions inserts all of txs or none of them.
	CreateTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id string) (core.Category, error)
}

type BudgetStore interface {
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	// FindOverlappingBudget returns a budget of the same user, category and period whose range
	// overlaps r, or a not-found error.
	FindOverlappingBudget(ctx context.Context, userID, categoryID string, period core.Period, r core.DateRange) (core.Budget, error)
}

type AccountStore interface {
	ListAccounts(ctx context.Context, userID string) ([]core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
}

type UserStore interface {
	// CreateUser fails with a conflict error when the email is taken.
	CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error)
	// GetUserByEmail returns the user together with its password hash.
	GetUserByEmail(ctx context.Context, email string) (core.User, string, error)
	// DeleteUser removes the user and every record it owns.
	DeleteUser(ctx context.Context, id string) error
}

// Session binds an opaque token to a user until it expires.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

type SessionStore interface {
	CreateSession(ctx context.Context, s Session) error
	// GetSession returns the session with its user; expired sessions are not found.
	GetSession(ctx context.Context, token string, now time.Time) (Session, core.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Store is everything the services need from persistence.
type Store interface {
	TransactionStore
	CategoryStore
	BudgetStore
	AccountStore
	UserStore
	SessionStore

	Ping(ctx context.Context) error
	Close() error
}
