package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/catalog/backend/internal/application/catalog"
)

// ProductHandler handles product catalog API endpoints, including the
// manual ECount synchronization endpoints.
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// RegisterRoutes registers product routes on the given router group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/catalog/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.GetByID)
		products.GET("/code/:code", h.GetByMasterCode)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/sync", h.Sync)
		products.GET("/:id/sync-records", h.GetSyncRecords)
	}
}

// Create creates a new product and pushes it to ECount
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID retrieves a product by its ID
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByMasterCode retrieves a product by its master code
func (h *ProductHandler) GetByMasterCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product master code is required")
		return
	}

	product, err := h.productService.GetByMasterCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List retrieves a paginated list of products
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update updates a product and pushes the new state to ECount
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes a product and its sync records
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Sync pushes the product's current state to ECount on demand
func (h *ProductHandler) Sync(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	result, err := h.productService.SyncToEcount(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSyncRecords lists the product's external synchronization records
func (h *ProductHandler) GetSyncRecords(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	records, err := h.productService.GetSyncRecords(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}
