package handlers

import (
	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/account"
)

// AccountHandler serves account read endpoints. Account provisioning
// is an external admin concern; balances change only through ledger
// flows.
type AccountHandler struct {
	*BaseHandler
	service *account.Service
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(base *BaseHandler, service *account.Service) *AccountHandler {
	return &AccountHandler{BaseHandler: base, service: service}
}

// List returns all accounts.
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, accounts, len(accounts))
}

// Get returns one account.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, acc)
}
