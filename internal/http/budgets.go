package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance-tracker-backend/internal/core"
)

type budgetRequest struct {
	CategoryID string           `json:"categoryId"`
	Limit      *decimal.Decimal `json:"limit"`
	Period     string           `json:"period"`
	StartDate  string           `json:"startDate"`
	EndDate    string           `json:"endDate"`
}

func (h *handler) listBudgets(c *gin.Context) {
	budgets, err := h.svc.ListBudgets(c.Request.Context(), session(c).User.ID)
	if err != nil {
		fail(c, err, "Failed to fetch budgets")
		return
	}

	resp := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, newBudgetResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) createBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	b, err := h.svc.CreateBudget(c.Request.Context(), session(c).User.ID, core.BudgetInput{
		CategoryID: req.CategoryID,
		Limit:      req.Limit,
		Period:     req.Period,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		fail(c, err, "Failed to create budget")
		return
	}
	c.JSON(http.StatusCreated, newBudgetResponse(b))
}
