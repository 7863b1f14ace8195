package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/transaction"
)

// TransactionHandler handles the manual transaction endpoints.
type TransactionHandler struct {
	*BaseHandler
	service *transaction.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, service: service}
}

// Create records a new transaction.
func (h *TransactionHandler) Create(c *gin.Context) {
	var t transaction.Transaction
	if !h.BindJSON(c, &t) {
		return
	}

	if err := h.service.Create(c.Request.Context(), &t); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Update rewrites a transaction, reverting and reapplying its balance
// effect when effect fields changed.
func (h *TransactionHandler) Update(c *gin.Context) {
	transactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var updated transaction.Transaction
	if !h.BindJSON(c, &updated) {
		return
	}

	if err := h.service.Update(c.Request.Context(), transactionID, &updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a transaction, reverting its balance effect.
func (h *TransactionHandler) Delete(c *gin.Context) {
	transactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), transactionID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, "transaction")
}

// Get returns one transaction.
func (h *TransactionHandler) Get(c *gin.Context) {
	transactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), transactionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, t)
}

// List returns transactions matching the query filters.
func (h *TransactionHandler) List(c *gin.Context) {
	filter := transaction.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if accountID := c.Query("accountId"); accountID != "" {
		if parsed, err := id.Parse(accountID); err == nil {
			filter.AccountID = &parsed
		}
	}
	if categoryID := c.Query("categoryId"); categoryID != "" {
		if parsed, err := id.Parse(categoryID); err == nil {
			filter.CategoryID = &parsed
		}
	}
	if isExchange := c.Query("isExchange"); isExchange != "" {
		val := isExchange == "true"
		filter.IsExchange = &val
	}
	if dateFrom := c.Query("dateFrom"); dateFrom != "" {
		if parsed, err := time.Parse(time.RFC3339, dateFrom); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if dateTo := c.Query("dateTo"); dateTo != "" {
		if parsed, err := time.Parse(time.RFC3339, dateTo); err == nil {
			filter.DateTo = &parsed
		}
	}

	transactions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, transactions, len(transactions))
}
