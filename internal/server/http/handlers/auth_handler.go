package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okonev/orderdesk/internal/domain/model"
	"github.com/okonev/orderdesk/internal/server/http/dto"
	"github.com/okonev/orderdesk/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("email, username and password are required"))
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, authResponse(user, token))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("email and password are required"))
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, authResponse(user, token))
}

func authResponse(user *model.User, token string) dto.AuthResponse {
	return dto.AuthResponse{
		Success: true,
		Token:   token,
		User: dto.UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			Role:     string(user.Role),
		},
	}
}
