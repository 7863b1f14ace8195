package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/sale"
)

// SaleHandler handles the sell endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// Create records a new sell.
func (h *SaleHandler) Create(c *gin.Context) {
	var sell sale.Sell
	if !h.BindJSON(c, &sell) {
		return
	}

	if err := h.service.Create(c.Request.Context(), &sell); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, sell)
}

// Update replaces a sell's items and payment split.
func (h *SaleHandler) Update(c *gin.Context) {
	sellID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var updated sale.Sell
	if !h.BindJSON(c, &updated) {
		return
	}

	if err := h.service.Update(c.Request.Context(), sellID, &updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a sell, restoring stock and reversing the credit.
func (h *SaleHandler) Delete(c *gin.Context) {
	sellID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), sellID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, "sell")
}

// Get returns one sell with items.
func (h *SaleHandler) Get(c *gin.Context) {
	sellID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	sell, err := h.service.GetByID(c.Request.Context(), sellID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, sell)
}

// List returns sells matching the query filters.
func (h *SaleHandler) List(c *gin.Context) {
	filter := sale.ListFilter{
		Status: c.Query("status"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if accountID := c.Query("accountId"); accountID != "" {
		if parsed, err := id.Parse(accountID); err == nil {
			filter.AccountID = &parsed
		}
	}
	if userID := c.Query("userId"); userID != "" {
		if parsed, err := id.Parse(userID); err == nil {
			filter.UserID = &parsed
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

	sells, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, sells, len(sells))
}
