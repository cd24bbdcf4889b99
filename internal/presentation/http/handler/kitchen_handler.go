package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
)

// KitchenHandler serves the kitchen display
type KitchenHandler struct {
	kitchenService *service.KitchenService
}

// NewKitchenHandler creates a new kitchen handler
func NewKitchenHandler(kitchenService *service.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: kitchenService}
}

// ActiveOrders lists orders still on the kitchen display
// @Summary Kitchen queue
// @Tags kitchen
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /kitchen/orders [get]
func (h *KitchenHandler) ActiveOrders(c *gin.Context) {
	orders, err := h.kitchenService.ActiveOrders(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Orders retrieved", orders)
}

// Advance moves an order to its next status
func (h *KitchenHandler) Advance(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.AdvanceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	order, err := h.kitchenService.Advance(c.Request.Context(), id, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order is now "+order.Status.String(), order)
}

// UpdateStatus sets an explicit status
// @Summary Update order status
// @Tags kitchen
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body request.UpdateOrderStatusRequest true "Status"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /kitchen/orders/{id}/status [put]
func (h *KitchenHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	status, err := enum.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(c, "Invalid status")
		return
	}

	order, err := h.kitchenService.UpdateStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order is now "+order.Status.String(), order)
}
