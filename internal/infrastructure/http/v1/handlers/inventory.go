package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/inventory"
)

// InventoryHandler handles product catalog endpoints. Stock counts are
// read-only here; they change only through the sale flow.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// Create creates a product with variants and SKUs.
func (h *InventoryHandler) Create(c *gin.Context) {
	var p inventory.Product
	if !h.BindJSON(c, &p) {
		return
	}

	if err := h.service.CreateProduct(c.Request.Context(), &p); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update updates product fields.
func (h *InventoryHandler) Update(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var p inventory.Product
	if !h.BindJSON(c, &p) {
		return
	}
	p.ID = productID

	if err := h.service.UpdateProduct(c.Request.Context(), &p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// Delete removes a product with its variants and SKUs.
func (h *InventoryHandler) Delete(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, "product")
}

// Get returns one product with variants and SKUs.
func (h *InventoryHandler) Get(c *gin.Context) {
	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p)
}

// List returns all products.
func (h *InventoryHandler) List(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, products, len(products))
}
