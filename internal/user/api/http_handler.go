package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
	"github.com/dukapos/dukapos-api/internal/user/domain"
	"github.com/dukapos/dukapos-api/internal/user/repository"
	"github.com/dukapos/dukapos-api/internal/user/service"
)

type AuthHandler struct {
	userService service.UserService
}

func NewAuthHandler(us service.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// RegisterRoutes mounts the public auth endpoints; everything else in the
// API sits behind the Authenticate middleware.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register-shop", h.RegisterShop)
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes mounts the auth endpoints that need a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
}

func (h *AuthHandler) RegisterShop(c *gin.Context) {
	var req domain.RegisterShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.userService.RegisterShop(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrShopAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.RegisterShop: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register shop"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req domain.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrShopNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Shop not found. Please check your Shop ID."})
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.RegisterUser: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := auth.FromContext(c)
	user, err := h.userService.CurrentUser(c.Request.Context(), claims.ShopID, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Hdl.Me: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.Login: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
