package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
)

// CartHandler exposes the terminal cart
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the terminal's cart
// @Summary Current cart
// @Tags cart
// @Produce json
// @Param X-Terminal-ID header string false "Terminal"
// @Success 200 {object} response.APIResponse
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), TerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved", cart)
}

// AddItem adds one unit of a product. The notice tells the cashier what happened.
// @Summary Add item
// @Tags cart
// @Accept json
// @Produce json
// @Param request body request.AddCartItemRequest true "Product"
// @Success 200 {object} response.APIResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, notice, err := h.cartService.AddItem(c.Request.Context(), TerminalID(c), req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notice.Message, gin.H{
		"cart":   cart,
		"notice": notice,
	})
}

// UpdateQuantity sets the quantity of a line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, ok := paramUUID(c, "product_id")
	if !ok {
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), TerminalID(c), productID, *req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart updated", cart)
}

// RemoveItem drops a line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := paramUUID(c, "product_id")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), TerminalID(c), productID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", cart)
}

// SetCustomer sets the customer name
func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.SetCustomerName(c.Request.Context(), TerminalID(c), req.CustomerName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer updated", cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	cart, err := h.cartService.Clear(c.Request.Context(), TerminalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared", cart)
}
