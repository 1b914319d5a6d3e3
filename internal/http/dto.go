package http

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/core"
)

// Amounts leave the API as JSON numbers rounded to cents and dates as YYYY-MM-DD.
// Percentages are sent unrounded so a breakdown sums to 100.

type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Type  string `json:"type"`
}

type transactionResponse struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Type        string           `json:"type"`
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	CategoryID  string           `json:"categoryId"`
	Category    categoryResponse `json:"category"`
	Date        string           `json:"date"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type budgetResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	CategoryID string           `json:"categoryId"`
	Category   categoryResponse `json:"category"`
	Limit      float64          `json:"limit"`
	Spent      *float64         `json:"spent,omitempty"`
	Period     string           `json:"period"`
	StartDate  string           `json:"startDate"`
	EndDate    string           `json:"endDate"`
	CreatedAt  time.Time        `json:"createdAt"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type categoryAmountResponse struct {
	Category   categoryResponse `json:"category"`
	Amount     float64          `json:"amount"`
	Percentage float64          `json:"percentage"`
}

type reportResponse struct {
	ID                string                   `json:"id"`
	UserID            string                   `json:"userId"`
	Type              string                   `json:"type"`
	Period            string                   `json:"period"`
	TotalIncome       float64                  `json:"totalIncome"`
	TotalExpenses     float64                  `json:"totalExpenses"`
	NetIncome         float64                  `json:"netIncome"`
	CategoryBreakdown []categoryAmountResponse `json:"categoryBreakdown"`
	GeneratedAt       time.Time                `json:"generatedAt"`
}

type analyticsResponse struct {
	Summary struct {
		TotalIncome      float64 `json:"totalIncome"`
		TotalExpenses    float64 `json:"totalExpenses"`
		TransactionCount int     `json:"transactionCount"`
	} `json:"summary"`
	ByCategory []categoryAmountResponse `json:"byCategory"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func newCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Color: c.Color, Icon: string(c.Icon), Type: string(c.Type)}
}

func newTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Amount:      money(t.Amount),
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Category:    newCategoryResponse(t.Category),
		Date:        core.FormatDate(t.Date),
		CreatedAt:   t.CreatedAt,
	}
}

func newTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, newTransactionResponse(t))
	}
	return out
}

func newBudgetResponse(b core.Budget) budgetResponse {
	resp := budgetResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Category:   newCategoryResponse(b.Category),
		Limit:      money(b.Limit),
		Period:     string(b.Period),
		StartDate:  core.FormatDate(b.StartDate),
		EndDate:    core.FormatDate(b.EndDate),
		CreatedAt:  b.CreatedAt,
	}
	if b.Spent != nil {
		spent := money(*b.Spent)
		resp.Spent = &spent
	}
	return resp
}

func newAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   money(a.Balance),
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt,
	}
}

func newSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		User: userResponse{
			ID:        s.User.ID,
			Email:     s.User.Email,
			FirstName: s.User.FirstName,
			LastName:  s.User.LastName,
			CreatedAt: s.User.CreatedAt,
		},
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
	}
}

func newBreakdown(items []core.CategoryAmount) []categoryAmountResponse {
	out := make([]categoryAmountResponse, 0, len(items))
	for _, it := range items {
		out = append(out, categoryAmountResponse{
			Category:   newCategoryResponse(it.Category),
			Amount:     money(it.Amount),
			Percentage: it.Percentage.InexactFloat64(),
		})
	}
	return out
}

func newReportResponse(r core.Report) reportResponse {
	return reportResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		Type:              string(r.Type),
		Period:            r.Period,
		TotalIncome:       money(r.TotalIncome),
		TotalExpenses:     money(r.TotalExpenses),
		NetIncome:         money(r.NetIncome),
		CategoryBreakdown: newBreakdown(r.CategoryBreakdown),
		GeneratedAt:       r.GeneratedAt,
	}
}

func newAnalyticsResponse(a core.Analytics) analyticsResponse {
	var resp analyticsResponse
	resp.Summary.TotalIncome = money(a.Summary.TotalIncome)
	resp.Summary.TotalExpenses = money(a.Summary.TotalExpenses)
	resp.Summary.TransactionCount = a.Summary.TransactionCount
	resp.ByCategory = newBreakdown(a.ByCategory)
	return resp
}
