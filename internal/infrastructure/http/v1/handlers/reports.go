package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/history"
	"dukapos/internal/domain/reports"
	"dukapos/pkg/logger"
)

// ReportsHandler serves the reporting endpoints, including the account
// history reconstruction.
type ReportsHandler struct {
	*BaseHandler
	reports *reports.Service
	history *history.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, reportsSvc *reports.Service, historySvc *history.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, reports: reportsSvc, history: historySvc}
}

// parseDateQuery accepts RFC 3339 timestamps and plain dates.
func parseDateQuery(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func (h *ReportsHandler) historyParams(c *gin.Context) (id.ID, time.Time, time.Time, bool) {
	accountID, err := id.Parse(c.Query("accountId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid accountId"))
		return id.ID{}, time.Time{}, time.Time{}, false
	}

	fromDate, err := parseDateQuery(c.Query("fromDate"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid fromDate"))
		return id.ID{}, time.Time{}, time.Time{}, false
	}
	toDate, err := parseDateQuery(c.Query("toDate"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid toDate"))
		return id.ID{}, time.Time{}, time.Time{}, false
	}
	if toDate.Before(fromDate) {
		h.Error(c, apperror.NewValidation("toDate must not be before fromDate"))
		return id.ID{}, time.Time{}, time.Time{}, false
	}

	return accountID, fromDate, toDate, true
}

// AccountHistory reconstructs the running-balance timeline for an
// account within a date window.
func (h *ReportsHandler) AccountHistory(c *gin.Context) {
	accountID, fromDate, toDate, ok := h.historyParams(c)
	if !ok {
		return
	}

	report, err := h.history.Reconstruct(c.Request.Context(), accountID, fromDate, toDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// AccountHistoryExport streams the reconstructed timeline as a
// gzip-compressed CSV attachment.
func (h *ReportsHandler) AccountHistoryExport(c *gin.Context) {
	accountID, fromDate, toDate, ok := h.historyParams(c)
	if !ok {
		return
	}

	report, err := h.history.Reconstruct(c.Request.Context(), accountID, fromDate, toDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	filename := fmt.Sprintf("account-history-%s-%s.csv",
		fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Encoding", "gzip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	gz := gzip.NewWriter(c.Writer)
	w := csv.NewWriter(gz)

	_ = w.Write([]string{"date", "type", "amount", "description", "balance"})
	for _, entry := range report.Timeline {
		_ = w.Write([]string{
			entry.Date.Format(time.RFC3339),
			entry.Type,
			entry.Amount.String(),
			entry.Description,
			entry.Balance.String(),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error(c.Request.Context(), "write history csv", "error", err)
	}
	if err := gz.Close(); err != nil {
		logger.Error(c.Request.Context(), "close gzip stream", "error", err)
	}
}

func (h *ReportsHandler) rangeParams(c *gin.Context) (reports.Range, bool) {
	var r reports.Range
	if from := c.Query("fromDate"); from != "" {
		parsed, err := parseDateQuery(from)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid fromDate"))
			return reports.Range{}, false
		}
		r.From = parsed
	}
	if to := c.Query("toDate"); to != "" {
		parsed, err := parseDateQuery(to)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid toDate"))
			return reports.Range{}, false
		}
		r.To = parsed
	}
	return r, true
}

// SalesByProduct returns per-product sales aggregates for a period.
func (h *ReportsHandler) SalesByProduct(c *gin.Context) {
	r, ok := h.rangeParams(c)
	if !ok {
		return
	}

	rows, err := h.reports.SalesByProduct(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, rows, len(rows))
}

// SalesByCategory returns per-category sales aggregates for a period.
func (h *ReportsHandler) SalesByCategory(c *gin.Context) {
	r, ok := h.rangeParams(c)
	if !ok {
		return
	}

	rows, err := h.reports.SalesByCategory(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, rows, len(rows))
}

// SwapSummary returns swap volume grouped by account pair.
func (h *ReportsHandler) SwapSummary(c *gin.Context) {
	r, ok := h.rangeParams(c)
	if !ok {
		return
	}

	rows, err := h.reports.SwapSummary(c.Request.Context(), r)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, rows, len(rows))
}

// Dashboard returns the cached front-page summary.
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}
