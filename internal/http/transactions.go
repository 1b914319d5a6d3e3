package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/ofx"
	"finance-tracker-backend/internal/service"
	"finance-tracker-backend/internal/storage"
)

type transactionRequest struct {
	Type        string           `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	CategoryID  string           `json:"categoryId"`
	Date        string           `json:"date"`
}

type transactionPatchRequest struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"categoryId"`
	Date        *string          `json:"date"`
}

// listTransactions retrieves the caller's transactions, optionally filtered by query
func (h *handler) listTransactions(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		fail(c, err, "Invalid filter")
		return
	}

	txs, err := h.svc.ListTransactions(c.Request.Context(), session(c).User.ID, filter)
	if err != nil {
		fail(c, err, "Failed to fetch transactions")
		return
	}
	c.JSON(http.StatusOK, newTransactionResponses(txs))
}

func parseFilter(c *gin.Context) (storage.TransactionFilter, error) {
	filter := storage.TransactionFilter{CategoryID: c.Query("categoryId")}
	if typ := c.Query("type"); typ != "" {
		filter.Type = core.TransactionType(typ)
		if !filter.Type.Valid() {
			return filter, core.Validation("Type must be income or expense")
		}
	}
	var err error
	if filter.DateFrom, err = dateParam(c, "dateFrom"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = dateParam(c, "dateTo"); err != nil {
		return filter, err
	}
	return filter, nil
}

func dateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return nil, core.Validation("Date must be in YYYY-MM-DD format")
	}
	return &d, nil
}

// createTransaction creates a new transaction
func (h *handler) createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	t, err := h.svc.CreateTransaction(c.Request.Context(), session(c).User.ID, core.TransactionInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		fail(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, newTransactionResponse(t))
}

func (h *handler) updateTransaction(c *gin.Context) {
	var req transactionPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	t, err := h.svc.UpdateTransaction(c.Request.Context(), session(c).User.ID, c.Param("id"), core.TransactionPatchInput{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Date:        req.Date,
	})
	if err != nil {
		fail(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, newTransactionResponse(t))
}

// deleteTransaction removes a transaction by ID
func (h *handler) deleteTransaction(c *gin.Context) {
	if err := h.svc.DeleteTransaction(c.Request.Context(), session(c).User.ID, c.Param("id")); err != nil {
		fail(c, err, "Failed to delete transaction")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// maxUploadSize leaves room for the multipart envelope around a statement.
const maxUploadSize = ofx.MaxStatementSize + 1<<20

// importTransactions stores every line of an uploaded OFX statement
func (h *handler) importTransactions(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		badRequest(c, "OFX file is required")
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		badRequest(c, "OFX file is too large")
		return
	}
	if err != nil {
		badRequest(c, "Invalid upload")
		return
	}
	f, err := header.Open()
	if err != nil {
		fail(c, err, "Failed to read upload")
		return
	}
	defer f.Close()

	txs, err := h.svc.ImportTransactions(c.Request.Context(), session(c).User.ID, f, service.ImportInput{
		IncomeCategoryID:  c.PostForm("incomeCategoryId"),
		ExpenseCategoryID: c.PostForm("expenseCategoryId"),
	})
	if err != nil {
		fail(c, err, "Failed to import transactions")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"imported":     len(txs),
		"transactions": newTransactionResponses(txs),
	})
}
