package service

import (
	"context"

	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/core"
	"finance-tracker-backend/internal/export"
	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/storage"
)

// GenerateReport totals the user's transactions over the requested month or year.
func (s *Service) GenerateReport(ctx context.Context, userID string, req core.ReportRequest) (core.Report, error) {
	typ, rng, err := req.Validate()
	if err != nil {
		return core.Report{}, err
	}

	txs, err := s.store.ListTransactions(ctx, userID, storage.RangeFilter(rng))
	if err != nil {
		return core.Report{}, dataAccess("Failed to fetch transactions", err)
	}

	report := core.BuildReport(userID, typ, req.Period, txs, s.now())
	s.logger.DebugContext(ctx, "Report generated",
		log.FieldOperation, log.OpReport, log.FieldUserID, userID, "period", req.Period, log.FieldCount, len(txs))
	return report, nil
}

// ExportReport generates the report and renders it as an XLSX workbook.
func (s *Service) ExportReport(ctx context.Context, userID string, req core.ReportRequest) (core.Report, []byte, error) {
	report, err := s.GenerateReport(ctx, userID, req)
	if err != nil {
		return core.Report{}, nil, err
	}
	data, err := export.ReportWorkbook(report)
	if err != nil {
		return core.Report{}, nil, core.DataAccess("Failed to export report", err)
	}
	return report, data, nil
}

// Analytics summarises the last 30 days for the dashboard.
func (s *Service) Analytics(ctx context.Context, userID string) (core.Analytics, error) {
	key := cache.AnalyticsKey(userID)
	var cached core.Analytics
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	txs, err := s.store.ListTransactions(ctx, userID, storage.RangeFilter(core.LastDays(s.now(), analyticsWindowDays)))
	if err != nil {
		return core.Analytics{}, dataAccess("Failed to fetch analytics", err)
	}

	analytics := core.BuildAnalytics(txs)
	s.cache.SetJSON(ctx, key, analytics, cache.AnalyticsTTL)
	return analytics, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]core.Category, error) {
	key := cache.CategoriesKey()
	var cached []core.Category
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, dataAccess("Failed to fetch categories", err)
	}
	for i := range categories {
		categories[i].Icon = core.ResolveIcon(string(categories[i].Icon))
	}

	s.cache.SetJSON(ctx, key, categories, cache.CategoriesTTL)
	return categories, nil
}

func (s *Service) ListAccounts(ctx context.Context, userID string) ([]core.Account, error) {
	accounts, err := s.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, dataAccess("Failed to fetch accounts", err)
	}
	return accounts, nil
}
