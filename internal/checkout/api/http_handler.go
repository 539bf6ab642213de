package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/checkout/domain"
	"github.com/dukapos/dukapos-api/internal/checkout/repository"
	"github.com/dukapos/dukapos-api/internal/checkout/service"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	salesRoutes := router.Group("/sales")
	{
		salesRoutes.POST("/checkout", auth.BlockManagerWrites(), h.Checkout)
		salesRoutes.GET("", h.ListTransactions)
		salesRoutes.GET("/:id", h.GetTransaction)
	}
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Items and payment method are required"})
		return
	}

	txn, err := h.service.Checkout(c.Request.Context(), claims.ShopID, claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidItem),
			errors.Is(err, service.ErrInvalidPayment),
			errors.Is(err, service.ErrTotalMismatch),
			errors.Is(err, service.ErrOutOfStock),
			errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProductNotFound),
			errors.Is(err, repository.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.Checkout: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing sale"})
		}
		return
	}

	c.JSON(http.StatusCreated, txn)
}

func (h *CheckoutHandler) ListTransactions(c *gin.Context) {
	claims := auth.FromContext(c)
	transactions, err := h.service.ListTransactions(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.ListTransactions: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *CheckoutHandler) GetTransaction(c *gin.Context) {
	claims := auth.FromContext(c)
	txn, err := h.service.GetTransaction(c.Request.Context(), claims.ShopID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		logger.Error("Hdl.GetTransaction: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching transaction"})
		return
	}
	c.JSON(http.StatusOK, txn)
}
