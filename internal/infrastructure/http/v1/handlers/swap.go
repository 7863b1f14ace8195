package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/swap"
)

// SwapHandler handles the account swap endpoints.
type SwapHandler struct {
	*BaseHandler
	service *swap.Service
}

// NewSwapHandler creates a new swap handler.
func NewSwapHandler(base *BaseHandler, service *swap.Service) *SwapHandler {
	return &SwapHandler{BaseHandler: base, service: service}
}

// Create records a new swap.
func (h *SwapHandler) Create(c *gin.Context) {
	var a swap.AccountSwap
	if !h.BindJSON(c, &a) {
		return
	}

	if err := h.service.Create(c.Request.Context(), &a); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Update rewrites a swap, reverting the old movement and applying the
// new one.
func (h *SwapHandler) Update(c *gin.Context) {
	swapID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var updated swap.AccountSwap
	if !h.BindJSON(c, &updated) {
		return
	}

	if err := h.service.Update(c.Request.Context(), swapID, &updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a swap, reverting its movement.
func (h *SwapHandler) Delete(c *gin.Context) {
	swapID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), swapID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, "swap")
}

// Get returns one swap.
func (h *SwapHandler) Get(c *gin.Context) {
	swapID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), swapID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, a)
}

// List returns swaps matching the query filters.
func (h *SwapHandler) List(c *gin.Context) {
	filter := swap.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if accountID := c.Query("accountId"); accountID != "" {
		if parsed, err := id.Parse(accountID); err == nil {
			filter.AccountID = &parsed
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

	swaps, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, swaps, len(swaps))
}
