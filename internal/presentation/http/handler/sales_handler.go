package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/pkg/pagination"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SalesHandler serves reports, transaction history and exports
type SalesHandler struct {
	salesService *service.SalesService
	now          func() time.Time
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(salesService *service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService, now: time.Now}
}

// Report aggregates sales for the default window of a period
// @Summary Sales report
// @Tags sales
// @Produce json
// @Param period query string false "daily, weekly or monthly"
// @Success 200 {object} response.APIResponse
// @Router /sales/report [get]
func (h *SalesHandler) Report(c *gin.Context) {
	var req request.SalesReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid period")
		return
	}
	period, _ := enum.ParseReportPeriod(req.Period)

	report, err := h.salesService.Report(c.Request.Context(), period, h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sales report retrieved", report)
}

// Transactions lists sales page by page
// @Summary Transactions
// @Tags sales
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param search query string false "Receipt, order or customer"
// @Param page query int false "Page"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.APIResponse
// @Router /sales/transactions [get]
func (h *SalesHandler) Transactions(c *gin.Context) {
	var req request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid filter")
		return
	}

	loc := h.salesService.Location()
	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
	}
	if req.StartDate != "" {
		start, err := time.ParseInLocation("2006-01-02", req.StartDate, loc)
		if err != nil {
			response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.ParseInLocation("2006-01-02", req.EndDate, loc)
		if err != nil {
			response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
			return
		}
		// inclusive of the whole end day
		end = end.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	sales, page, err := h.salesService.Transactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Transactions retrieved", pagination.NewPaginatedResult(sales, page))
}

// Export downloads the sales of a period window as CSV or XLSX
// @Summary Export sales
// @Tags sales
// @Produce text/csv
// @Param period query string false "daily, weekly or monthly"
// @Param format query string false "csv or xlsx"
// @Router /sales/export [get]
func (h *SalesHandler) Export(c *gin.Context) {
	var req request.SalesExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid export parameters")
		return
	}
	period, _ := enum.ParseReportPeriod(req.Period)
	now := h.now().In(h.salesService.Location())

	sales, err := h.salesService.SalesInWindow(c.Request.Context(), period, now)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	contentType, ext := contentTypeCSV, "csv"
	if req.Format == "xlsx" {
		contentType, ext = contentTypeXLSX, "xlsx"
		err = h.salesService.ExportXLSX(&buf, sales)
	} else {
		err = h.salesService.ExportCSV(&buf, sales)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(period, now, ext)+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
