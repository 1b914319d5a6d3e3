package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/export"
)

type reportRequest struct {
	Type   string `json:"type"`
	Period string `json:"period"`
}

func bindReport(c *gin.Context) (core.ReportRequest, bool) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return core.ReportRequest{}, false
	}
	return core.ReportRequest{Type: req.Type, Period: req.Period}, true
}

func (h *handler) generateReport(c *gin.Context) {
	req, ok := bindReport(c)
	if !ok {
		return
	}
	report, err := h.svc.GenerateReport(c.Request.Context(), session(c).User.ID, req)
	if err != nil {
		fail(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, newReportResponse(report))
}

// exportReport renders the report as a downloadable workbook
func (h *handler) exportReport(c *gin.Context) {
	req, ok := bindReport(c)
	if !ok {
		return
	}
	report, data, err := h.svc.ExportReport(c.Request.Context(), session(c).User.ID, req)
	if err != nil {
		fail(c, err, "Failed to export report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(report)))
	c.Data(http.StatusOK, export.ContentType, data)
}

// analytics returns dashboard analytics for the last 30 days
func (h *handler) analytics(c *gin.Context) {
	a, err := h.svc.Analytics(c.Request.Context(), session(c).User.ID)
	if err != nil {
		fail(c, err, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, newAnalyticsResponse(a))
}

// listCategories retrieves all categories
func (h *handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to fetch categories")
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, newCategoryResponse(cat))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) listAccounts(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context(), session(c).User.ID)
	if err != nil {
		fail(c, err, "Failed to fetch accounts")
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, newAccountResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}
