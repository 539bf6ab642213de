package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/inventory/domain"
	"github.com/dukapos/dukapos-api/internal/inventory/repository"
	"github.com/dukapos/dukapos-api/internal/inventory/service"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

type InventoryHandler struct {
	ledger service.StockLedger
}

func NewInventoryHandler(ledger service.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	inventoryRoutes := router.Group("/inventory")
	{
		// Restock is admin/manager at the route level, and the manager
		// write-block makes it admin-only in practice.
		inventoryRoutes.POST("/restock",
			auth.RequireRoles(auth.RoleAdmin, auth.RoleManager), auth.BlockManagerWrites(), h.Restock)
		inventoryRoutes.POST("/adjust", auth.RequireRoles(auth.RoleAdmin), h.Adjust)
		inventoryRoutes.GET("/logs",
			auth.RequireRoles(auth.RoleAdmin, auth.RoleManager), h.ListLogs)
	}

	// Kept under /products to match the catalog-facing surface.
	router.GET("/products/low-stock", h.GetLowStock)
}

func (h *InventoryHandler) Restock(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID and quantity are required"})
		return
	}

	change, err := h.ledger.Restock(c.Request.Context(), claims.ShopID, claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		default:
			logger.Error("Hdl.Restock: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating stock"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "newStock": change.NewStock})
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID and delta are required"})
		return
	}

	change, err := h.ledger.Adjust(c.Request.Context(), claims.ShopID, claims.UserID, req.ProductID, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDelta):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, repository.ErrStockOutOfBounds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment would make stock negative"})
		default:
			logger.Error("Hdl.Adjust: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adjusting stock"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Stock adjusted successfully",
		"previousStock": change.PreviousStock,
		"newStock":      change.NewStock,
	})
}

func (h *InventoryHandler) ListLogs(c *gin.Context) {
	claims := auth.FromContext(c)
	logs, err := h.ledger.ListLogs(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.ListLogs: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching inventory logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	claims := auth.FromContext(c)
	products, err := h.ledger.GetLowStock(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.GetLowStock: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching low stock products"})
		return
	}
	c.JSON(http.StatusOK, products)
}
