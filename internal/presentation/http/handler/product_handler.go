package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

// ProductHandler serves the menu to terminals and product admin to the back office
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListAvailable returns the products a cashier can sell
// @Summary Menu
// @Tags catalog
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /catalog/products [get]
func (h *ProductHandler) ListAvailable(c *gin.Context) {
	products, err := h.catalogService.FetchAvailableProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved", products)
}

// Categories returns the menu sections
func (h *ProductHandler) Categories(c *gin.Context) {
	response.OK(c, "Categories retrieved", h.catalogService.Categories())
}

// ListAll returns every product including unavailable ones
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.catalogService.FetchAllProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved", products)
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved", product)
}

// Create handles creating a new product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param request body request.CreateProductRequest true "Product data"
// @Success 201 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	price := money.FromFloat(req.Price)
	input := &service.ProductInput{
		Name:        &req.Name,
		Price:       &price,
		Category:    &req.Category,
		ImageURL:    req.ImageURL,
		Description: &req.Description,
		IsAvailable: req.IsAvailable,
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Product created successfully", product)
}

// Update handles updating a product
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body request.UpdateProductRequest true "Product data"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.ProductInput{
		Name:        req.Name,
		Price:       centsPtr(req.Price),
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		IsAvailable: req.IsAvailable,
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product updated successfully", product)
}

// SetAvailability marks a product sellable or not
func (h *ProductHandler) SetAvailability(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.catalogService.SetAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product availability updated", product)
}

// Delete handles deleting a product
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 200 {object} response.APIResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product deleted successfully", nil)
}
