package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
)

// PrinterHandler handles printer and receipt HTTP requests.
type PrinterHandler struct {
	receiptService *service.ReceiptService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(receiptService *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{receiptService: receiptService}
}

// GetStatus returns the printer type, connection and settings.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.Status(c.Request.Context()))
}

// TestPrint sends a sample receipt to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	text, err := h.receiptService.TestPrint(c.Request.Context())
	if err != nil {
		// The text is still useful as a preview when printing is off or failing
		response.SuccessWithWarning(c, "Test receipt generated but not printed", gin.H{
			"receipt": text,
		}, err)
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": text,
	})
}

// PreviewReceipt renders both copies of a stored sale.
func (h *PrinterHandler) PreviewReceipt(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	preview, err := h.receiptService.Preview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", response.NewReceiptPreviewResponse(preview))
}

// ReprintReceipt prints a stored sale again.
func (h *PrinterHandler) ReprintReceipt(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	preview, err := h.receiptService.Reprint(c.Request.Context(), id)
	if err != nil {
		if preview != nil && apperror.IsPrint(err) {
			response.SuccessWithWarning(c, "Receipt generated but printing failed",
				response.NewReceiptPreviewResponse(preview), err)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed successfully", response.NewReceiptPreviewResponse(preview))
}

// GetSettings returns the device printer settings.
func (h *PrinterHandler) GetSettings(c *gin.Context) {
	settings, err := h.receiptService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer settings retrieved", settings)
}

// UpdateSettings replaces the device printer settings.
func (h *PrinterHandler) UpdateSettings(c *gin.Context) {
	var req request.PrinterSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: width must be between 24 and 80")
		return
	}

	settings, err := h.receiptService.UpdateSettings(c.Request.Context(), entity.PrinterSettings{
		Enabled:   *req.Enabled,
		Width:     req.Width,
		AutoPrint: *req.AutoPrint,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printer settings saved", settings)
}
