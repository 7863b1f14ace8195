package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/bank"
)

// BankHandler handles the bank transaction endpoints.
type BankHandler struct {
	*BaseHandler
	service *bank.Service
}

// NewBankHandler creates a new bank transaction handler.
func NewBankHandler(base *BaseHandler, service *bank.Service) *BankHandler {
	return &BankHandler{BaseHandler: base, service: service}
}

// Create records a new bank transaction.
func (h *BankHandler) Create(c *gin.Context) {
	var b bank.BankTransaction
	if !h.BindJSON(c, &b) {
		return
	}

	if err := h.service.Create(c.Request.Context(), &b); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Update rewrites a bank transaction, reverting the old effect and
// applying the new one.
func (h *BankHandler) Update(c *gin.Context) {
	bankTransactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var updated bank.BankTransaction
	if !h.BindJSON(c, &updated) {
		return
	}

	if err := h.service.Update(c.Request.Context(), bankTransactionID, &updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a bank transaction, reverting its effect.
func (h *BankHandler) Delete(c *gin.Context) {
	bankTransactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), bankTransactionID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, "bank transaction")
}

// Get returns one bank transaction.
func (h *BankHandler) Get(c *gin.Context) {
	bankTransactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), bankTransactionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// List returns bank transactions matching the query filters.
func (h *BankHandler) List(c *gin.Context) {
	filter := bank.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if accountID := c.Query("accountId"); accountID != "" {
		if parsed, err := id.Parse(accountID); err == nil {
			filter.AccountID = &parsed
		}
	}
	if bankAccountID := c.Query("bankAccountId"); bankAccountID != "" {
		if parsed, err := id.Parse(bankAccountID); err == nil {
			filter.BankAccountID = &parsed
		}
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

	rows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, rows, len(rows))
}
