// Package memory implements storage.Store in process memory.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/storage"
)

type user struct {
	core.User
	passwordHash string
}

// Store keeps every record in maps guarded by a single lock.
// Slices hold records in insertion order.
type Store struct {
	mu sync.RWMutex

	categories   map[string]core.Category
	transactions []core.Transaction
	budgets      []core.Budget
	accounts     []core.Account
	users        map[string]user // by lowercased email
	sessions     map[string]storage.Session

	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store seeded with storage.DefaultCategories.
func New() *Store {
	s := &Store{
		categories: make(map[string]core.Category),
		users:      make(map[string]user),
		sessions:   make(map[string]storage.Session),
		now:        time.Now,
	}
	for _, c := range storage.DefaultCategories {
		s.categories[c.ID] = c
	}
	return s
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, filter storage.TransactionFilter) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch transactions", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Transaction, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		t := s.transactions[i]
		if t.UserID != userID || !filter.Matches(t) {
			continue
		}
		out = append(out, s.withCategory(t))
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, core.DataAccess("Failed to fetch transaction", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.transactionIndex(userID, id)
	if i < 0 {
		return core.Transaction{}, core.NotFound("Transaction not found")
	}
	return s.withCategory(s.transactions[i]), nil
}

func (s *Store) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.CreateTransactions(ctx, []core.Transaction{t})
	if err != nil {
		return core.Transaction{}, err
	}
	return created[0], nil
}

func (s *Store) CreateTransactions(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.DataAccess("Failed to create transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range txs {
		if _, ok := s.categories[t.CategoryID]; !ok {
			return nil, core.Validation("Invalid category for transaction type")
		}
	}

	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		t.ID = uuid.NewString()
		t.Date = core.TruncateDate(t.Date)
		t.CreatedAt = s.now().UTC()
		s.transactions = append(s.transactions, t)
		out = append(out, s.withCategory(t))
	}
	return out, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, userID, id string, patch core.TransactionPatch) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, core.DataAccess("Failed to update transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(userID, id)
	if i < 0 {
		return core.Transaction{}, core.NotFound("Transaction not found")
	}
	if patch.CategoryID != nil {
		if _, ok := s.categories[*patch.CategoryID]; !ok {
			return core.Transaction{}, core.Validation("Invalid category for transaction type")
		}
	}
	s.transactions[i] = patch.Apply(s.transactions[i])
	return s.withCategory(s.transactions[i]), nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return core.DataAccess("Failed to delete transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(userID, id)
	if i < 0 {
		return core.NotFound("Transaction not found")
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	return nil
}

func (s *Store) transactionIndex(userID, id string) int {
	return slices.IndexFunc(s.transactions, func(t core.Transaction) bool {
		return t.ID == id && t.UserID == userID
	})
}

func (s *Store) withCategory(t core.Transaction) core.Transaction {
	t.Category = s.categories[t.CategoryID]
	return t
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch categories", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b core.Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (core.Category, error) {
	if err := ctx.Err(); err != nil {
		return core.Category{}, core.DataAccess("Failed to fetch category", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, core.NotFound("Category not found")
	}
	return c, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch budgets", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Budget, 0)
	for i := len(s.budgets) - 1; i >= 0; i-- {
		b := s.budgets[i]
		if b.UserID != userID {
			continue
		}
		b.Category = s.categories[b.CategoryID]
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, core.DataAccess("Failed to create budget", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[b.CategoryID]
	if !ok {
		return core.Budget{}, core.Validation("Invalid expense category")
	}
	b.ID = uuid.NewString()
	b.Spent = nil
	b.CreatedAt = s.now().UTC()
	s.budgets = append(s.budgets, b)

	b.Category = cat
	return b, nil
}

func (s *Store) FindOverlappingBudget(ctx context.Context, userID, categoryID string, period core.Period, r core.DateRange) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, core.DataAccess("Failed to check existing budgets", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.budgets {
		if b.UserID == userID && b.CategoryID == categoryID && b.Period == period && b.Range().Overlaps(r) {
			b.Category = s.categories[b.CategoryID]
			return b, nil
		}
	}
	return core.Budget{}, core.NotFound("Budget not found")
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.DataAccess("Failed to fetch accounts", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Account, 0)
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := ctx.Err(); err != nil {
		return core.Account{}, core.DataAccess("Failed to create account", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User, passwordHash string) (core.User, error) {
	if err := ctx.Err(); err != nil {
		return core.User{}, core.DataAccess("Failed to create user", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; ok {
		return core.User{}, core.Conflict("Email already registered")
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.now().UTC()
	s.users[key] = user{User: u, passwordHash: passwordHash}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, string, error) {
	if err := ctx.Err(); err != nil {
		return core.User{}, "", core.DataAccess("Failed to fetch user", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return core.User{}, "", core.NotFound("User not found")
	}
	return u.User, u.passwordHash, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return core.DataAccess("Failed to delete user", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, u := range s.users {
		if u.ID == id {
			delete(s.users, key)
		}
	}
	for token, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, token)
		}
	}
	s.transactions = slices.DeleteFunc(s.transactions, func(t core.Transaction) bool { return t.UserID == id })
	s.budgets = slices.DeleteFunc(s.budgets, func(b core.Budget) bool { return b.UserID == id })
	s.accounts = slices.DeleteFunc(s.accounts, func(a core.Account) bool { return a.UserID == id })
	return nil
}

func (s *Store) userByID(id string) (core.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u.User, true
		}
	}
	return core.User{}, false
}

func (s *Store) CreateSession(ctx context.Context, sess storage.Session) error {
	if err := ctx.Err(); err != nil {
		return core.DataAccess("Failed to create session", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Token] = sess
	return nil
}

func (s *Store) GetSession(ctx context.Context, token string, now time.Time) (storage.Session, core.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, core.User{}, core.DataAccess("Failed to fetch session", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || !now.Before(sess.ExpiresAt) {
		return storage.Session{}, core.User{}, core.NotFound("Session not found")
	}
	u, ok := s.userByID(sess.UserID)
	if !ok {
		return storage.Session{}, core.User{}, core.NotFound("Session not found")
	}
	return sess, u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return core.DataAccess("Failed to delete session", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, core.DataAccess("Failed to purge sessions", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for token, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}
