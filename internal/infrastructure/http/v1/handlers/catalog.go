package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
)

// crudService is the shape every catalog service shares.
type crudService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entityID id.ID) error
	GetByID(ctx context.Context, entityID id.ID) (*T, error)
	List(ctx context.Context) ([]*T, error)
}

// CatalogHandler serves plain CRUD for one catalog entity type.
type CatalogHandler[T any] struct {
	*BaseHandler
	name    string
	service crudService[T]
	setID   func(entity *T, entityID id.ID)
}

// NewCatalogHandler creates a catalog handler for the named entity.
// setID stamps the path ID onto the bound body for updates.
func NewCatalogHandler[T any](base *BaseHandler, name string, service crudService[T], setID func(*T, id.ID)) *CatalogHandler[T] {
	return &CatalogHandler[T]{BaseHandler: base, name: name, service: service, setID: setID}
}

// Create handles POST /.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	var entity T
	if !h.BindJSON(c, &entity) {
		return
	}

	if err := h.service.Create(c.Request.Context(), &entity); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, entity)
}

// Update handles PATCH /:id.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var entity T
	if !h.BindJSON(c, &entity) {
		return
	}
	h.setID(&entity, entityID)

	if err := h.service.Update(c.Request.Context(), &entity); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// Delete handles DELETE /:id.
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.Deleted(c, h.name)
}

// Get handles GET /:id.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	entityID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entity)
}

// List handles GET /.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.BaseHandler.List(c, items, len(items))
}

// RegisterRoutes wires the standard CRUD routes onto a group.
func (h *CatalogHandler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
