package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/middleware"
)

// CheckoutHandler commits the terminal cart
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Checkout validates and commits the cart
// @Summary Checkout
// @Tags checkout
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.CheckoutRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	in := &service.CheckoutRequest{
		PaymentMethod:  enum.PaymentMethod(req.PaymentMethod),
		AmountTendered: centsPtr(req.AmountTendered),
	}
	if userID := middleware.UserIDFrom(c); userID != uuid.Nil {
		in.CashierID = &userID
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), TerminalID(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order "+result.OrderNumber+" placed", response.NewCheckoutResponse(result))
}
