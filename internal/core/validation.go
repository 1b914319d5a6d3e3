package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds stored amounts and limits: at most 10 integer digits and 2 decimals.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// checkMoney accepts positive values with at most two decimal places up to MaxAmount.
func checkMoney(d decimal.Decimal, field string) error {
	if !d.IsPositive() {
		return Validation(field + " must be positive")
	}
	if !d.Equal(d.Truncate(2)) {
		return Validation(field + " must have at most 2 decimal places")
	}
	if d.GreaterThan(MaxAmount) {
		return Validation(field + " must not exceed 9999999999.99")
	}
	return nil
}

// TransactionInput carries the client-supplied fields of a new transaction.
type TransactionInput struct {
	Type        string
	Amount      *decimal.Decimal
	Description string
	CategoryID  string
	Date        string
}

// Validate checks the input and returns the transaction it describes.
// Ownership, id and category details are filled in by the caller.
func (in TransactionInput) Validate() (Transaction, error) {
	if in.Type == "" || in.Amount == nil || in.Amount.IsZero() || strings.TrimSpace(in.Description) == "" ||
		in.CategoryID == "" || in.Date == "" {
		return Transaction{}, Validation("All fields are required")
	}
	typ := TransactionType(in.Type)
	if !typ.Valid() {
		return Transaction{}, Validation("Type must be income or expense")
	}
	if err := checkMoney(*in.Amount, "Amount"); err != nil {
		return Transaction{}, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, Validation("Date must be in YYYY-MM-DD format")
	}
	return Transaction{
		Type:        typ,
		Amount:      *in.Amount,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		Date:        date,
	}, nil
}

// CheckTransactionCategory rejects a category that does not carry the transaction's type.
func CheckTransactionCategory(cat Category, typ TransactionType) error {
	if cat.Type != typ {
		return Validation("Invalid category for transaction type")
	}
	return nil
}

// TransactionPatchInput carries the optional fields of a transaction update.
// Nil and empty values mean "not supplied".
type TransactionPatchInput struct {
	Type        *string
	Amount      *decimal.Decimal
	Description *string
	CategoryID  *string
	Date        *string
}

// TransactionPatch is a validated partial update.
type TransactionPatch struct {
	Type        *TransactionType
	Amount      *decimal.Decimal
	Description *string
	CategoryID  *string
	Date        *time.Time
}

// Validate checks every supplied field and drops the rest.
func (in TransactionPatchInput) Validate() (TransactionPatch, error) {
	var p TransactionPatch
	if in.Type != nil && *in.Type != "" {
		typ := TransactionType(*in.Type)
		if !typ.Valid() {
			return p, Validation("Type must be income or expense")
		}
		p.Type = &typ
	}
	if in.Amount != nil && !in.Amount.IsZero() {
		if err := checkMoney(*in.Amount, "Amount"); err != nil {
			return p, err
		}
		amount := *in.Amount
		p.Amount = &amount
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		desc := strings.TrimSpace(*in.Description)
		p.Description = &desc
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		id := *in.CategoryID
		p.CategoryID = &id
	}
	if in.Date != nil && *in.Date != "" {
		date, err := ParseDate(*in.Date)
		if err != nil {
			return p, Validation("Date must be in YYYY-MM-DD format")
		}
		p.Date = &date
	}
	return p, nil
}

// Empty reports whether the patch changes nothing.
func (p TransactionPatch) Empty() bool {
	return p.Type == nil && p.Amount == nil && p.Description == nil && p.CategoryID == nil && p.Date == nil
}

// NeedsCategoryCheck reports whether category and type were supplied together.
// Updates that change only one of the two are not cross-checked.
func (p TransactionPatch) NeedsCategoryCheck() bool {
	return p.Type != nil && p.CategoryID != nil
}

// Apply returns t with the patch applied.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// BudgetInput carries the client-supplied fields of a new budget.
type BudgetInput struct {
	CategoryID string
	Limit      *decimal.Decimal
	Period     string
	StartDate  string
	EndDate    string
}

// Validate checks the input and returns the budget it describes.
func (in BudgetInput) Validate() (Budget, error) {
	if in.CategoryID == "" || in.Limit == nil || in.Limit.IsZero() || in.Period == "" ||
		in.StartDate == "" || in.EndDate == "" {
		return Budget{}, Validation("All fields are required")
	}
	if err := checkMoney(*in.Limit, "Limit"); err != nil {
		return Budget{}, err
	}
	period := Period(in.Period)
	if !period.Valid() {
		return Budget{}, Validation("Period must be monthly or yearly")
	}
	start, err := ParseDate(in.StartDate)
	if err != nil {
		return Budget{}, Validation("Start date must be in YYYY-MM-DD format")
	}
	end, err := ParseDate(in.EndDate)
	if err != nil {
		return Budget{}, Validation("End date must be in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return Budget{}, Validation("End date must not be before start date")
	}
	return Budget{
		CategoryID: in.CategoryID,
		Limit:      *in.Limit,
		Period:     period,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// CheckBudgetCategory rejects any category that is not an expense category.
func CheckBudgetCategory(cat Category) error {
	if cat.Type != Expense {
		return Validation("Invalid expense category")
	}
	return nil
}

// ReportRequest carries the inputs of a report generation.
type ReportRequest struct {
	Type   string
	Period string
}

// Validate checks the request and derives the date range it covers.
func (r ReportRequest) Validate() (Period, DateRange, error) {
	if r.Type == "" || r.Period == "" {
		return "", DateRange{}, Validation("Type and period are required")
	}
	typ := Period(r.Type)
	if !typ.Valid() {
		return "", DateRange{}, Validation("Type must be monthly or yearly")
	}
	rng, err := PeriodRange(typ, r.Period)
	if err != nil {
		return "", DateRange{}, err
	}
	return typ, rng, nil
}
