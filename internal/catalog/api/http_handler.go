package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukapos/dukapos-api/internal/auth"
	"github.com/dukapos/dukapos-api/internal/catalog/domain"
	"github.com/dukapos/dukapos-api/internal/catalog/repository"
	"github.com/dukapos/dukapos-api/internal/catalog/service"
	"github.com/dukapos/dukapos-api/internal/platform/logger"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(cs service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	writeBlock := auth.BlockManagerWrites()
	adminOnly := auth.RequireRoles(auth.RoleAdmin)

	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.POST("", writeBlock, h.CreateProduct)
		productRoutes.PUT("/:id", writeBlock, h.UpdateProduct)
		productRoutes.DELETE("/:id", adminOnly, h.DeleteProduct)
	}

	serviceRoutes := router.Group("/services")
	{
		serviceRoutes.GET("", h.ListServices)
		serviceRoutes.GET("/:id", h.GetService)
		serviceRoutes.POST("", writeBlock, h.CreateService)
		serviceRoutes.PUT("/:id", writeBlock, h.UpdateService)
		serviceRoutes.DELETE("/:id", adminOnly, h.DeleteService)
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	claims := auth.FromContext(c)
	products, err := h.catalogService.ListProducts(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	claims := auth.FromContext(c)
	product, err := h.catalogService.GetProduct(c.Request.Context(), claims.ShopID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Error("Hdl.GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), claims.ShopID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrInvalidMinStockLevel),
			errors.Is(err, service.ErrInvalidStockQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrBarcodeConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.CreateProduct: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		}
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), claims.ShopID, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidMinStockLevel):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, repository.ErrBarcodeConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Hdl.UpdateProduct: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	claims := auth.FromContext(c)
	err := h.catalogService.DeleteProduct(c.Request.Context(), claims.ShopID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if errors.Is(err, repository.ErrProductInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "Product has sales or inventory history and cannot be deleted"})
			return
		}
		logger.Error("Hdl.DeleteProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	claims := auth.FromContext(c)
	services, err := h.catalogService.ListServices(c.Request.Context(), claims.ShopID)
	if err != nil {
		logger.Error("Hdl.ListServices: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	claims := auth.FromContext(c)
	svc, err := h.catalogService.GetService(c.Request.Context(), claims.ShopID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		logger.Error("Hdl.GetService: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	svc, err := h.catalogService.CreateService(c.Request.Context(), claims.ShopID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Hdl.CreateService: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	claims := auth.FromContext(c)
	var req domain.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	svc, err := h.catalogService.UpdateService(c.Request.Context(), claims.ShopID, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		default:
			logger.Error("Hdl.UpdateService: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		}
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	claims := auth.FromContext(c)
	err := h.catalogService.DeleteService(c.Request.Context(), claims.ShopID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		logger.Error("Hdl.DeleteService: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
