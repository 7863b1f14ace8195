package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/auth"
	"dukapos/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Login authenticates and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}

// CreateUser provisions a new user. Admin only (enforced by route
// middleware).
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Me returns the calling user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := h.GetUserID(c)
	if userID == "" {
		h.Error(c, apperror.NewUnauthorized("missing caller identity"))
		return
	}
	uid, err := id.Parse(userID)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid caller identity"))
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), uid)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, user)
}

// ListUsers returns all users. Admin only.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, users, len(users))
}
