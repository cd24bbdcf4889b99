package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"github.com/sangkips/mscheesy-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportHeader is the column row of every sales export.
var ExportHeader = []string{"Date", "Receipt#", "Order#", "Customer", "Items", "Subtotal", "Total", "Payment", "AmountPaid", "Change"}

const (
	exportDateLayout = "2006-01-02 15:04:05"
	exportSheet      = "Sales"
	missingOrderNo   = "N/A"
)

// SalesBucket is the summed total of one day, week or month.
type SalesBucket struct {
	Label string
	Start time.Time
	Total int64
	Count int
}

// MarshalJSON converts cents to decimals
func (b SalesBucket) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string    `json:"label"`
		Start time.Time `json:"start"`
		Total float64   `json:"total"`
		Count int       `json:"count"`
	}{b.Label, b.Start, money.ToFloat(b.Total), b.Count})
}

// SalesReport is an aggregation over one reporting window.
type SalesReport struct {
	Period       enum.ReportPeriod
	Start        time.Time
	End          time.Time
	Buckets      []SalesBucket
	Total        int64
	Transactions int
}

// MarshalJSON converts cents to decimals
func (r SalesReport) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Period       enum.ReportPeriod `json:"period"`
		Start        time.Time         `json:"start"`
		End          time.Time         `json:"end"`
		Buckets      []SalesBucket     `json:"buckets"`
		Total        float64           `json:"total"`
		Transactions int               `json:"transactions"`
	}{r.Period, r.Start, r.End, r.Buckets, money.ToFloat(r.Total), r.Transactions})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// bucketOf returns the start and label of the bucket holding t
func bucketOf(t time.Time, period enum.ReportPeriod) (time.Time, string) {
	day := startOfDay(t)
	switch period {
	case enum.ReportWeekly:
		monday := day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
		year, week := monday.ISOWeek()
		return monday, fmt.Sprintf("%s (W%02d %d)", monday.Format("2006-01-02"), week, year)
	case enum.ReportMonthly:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return first, first.Format("2006-01")
	default:
		return day, day.Format("2006-01-02")
	}
}

// AggregateSales sums sale totals per bucket in loc and returns the buckets
// in chronological order.
func AggregateSales(sales []entity.Sale, period enum.ReportPeriod, loc *time.Location) []SalesBucket {
	if loc == nil {
		loc = time.UTC
	}
	byStart := make(map[int64]*SalesBucket)
	for _, sale := range sales {
		start, label := bucketOf(sale.SaleDate.In(loc), period)
		b, ok := byStart[start.Unix()]
		if !ok {
			b = &SalesBucket{Label: label, Start: start}
			byStart[start.Unix()] = b
		}
		b.Total += sale.Total
		b.Count++
	}

	buckets := make([]SalesBucket, 0, len(byStart))
	for _, b := range byStart {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

// ReportWindow is the default range of a report ending at now.
func ReportWindow(period enum.ReportPeriod, now time.Time) (time.Time, time.Time) {
	switch period {
	case enum.ReportWeekly:
		return now.AddDate(0, 0, -28), now
	case enum.ReportMonthly:
		return now.AddDate(0, -6, 0), now
	default:
		return now.AddDate(0, 0, -7), now
	}
}

// ExportFilename is the download name of an export taken on day
func ExportFilename(period enum.ReportPeriod, day time.Time, ext string) string {
	return fmt.Sprintf("sales-%s-%s.%s", period, day.Format("2006-01-02"), ext)
}

// SalesService reads committed sales for the back office
type SalesService struct {
	saleRepo repository.SaleRepository
	location *time.Location
	logger   *zap.Logger
}

// NewSalesService creates a new sales service. Buckets and export dates use loc.
func NewSalesService(saleRepo repository.SaleRepository, loc *time.Location, logger *zap.Logger) *SalesService {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesService{saleRepo: saleRepo, location: loc, logger: logger}
}

// Location is the store time zone
func (s *SalesService) Location() *time.Location {
	return s.location
}

// SalesInWindow loads the sales of the default window of period
func (s *SalesService) SalesInWindow(ctx context.Context, period enum.ReportPeriod, now time.Time) ([]entity.Sale, error) {
	start, end := ReportWindow(period, now)
	sales, err := s.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load sales", err)
	}
	return sales, nil
}

// Report aggregates the default window of period ending at now
func (s *SalesService) Report(ctx context.Context, period enum.ReportPeriod, now time.Time) (*SalesReport, error) {
	start, end := ReportWindow(period, now)
	sales, err := s.SalesInWindow(ctx, period, now)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		Period:       period,
		Start:        start,
		End:          end,
		Buckets:      AggregateSales(sales, period, s.location),
		Transactions: len(sales),
	}
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(money.ToDecimal(sale.Total))
	}
	report.Total = money.FromDecimal(total)
	return report, nil
}

// Transactions lists sales page by page, newest first
func (s *SalesService) Transactions(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, *pagination.Pagination, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, nil, apperror.NewPersistenceError("Could not load sales", err)
	}
	return sales, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total), nil
}

// GetSale returns one sale with its items
func (s *SalesService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load the sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

func itemsSummary(items []entity.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
	}
	return strings.Join(parts, "; ")
}

func optionalFixed(cents *int64) string {
	if cents == nil {
		return ""
	}
	return money.Fixed(*cents)
}

// ExportRow renders one sale in export column order
func ExportRow(sale *entity.Sale, loc *time.Location) []string {
	orderNumber := sale.Order.OrderNumber
	if orderNumber == "" {
		orderNumber = missingOrderNo
	}
	row := []string{
		sale.SaleDate.In(loc).Format(exportDateLayout),
		sale.ReceiptNumber,
		orderNumber,
		sale.CustomerName,
		itemsSummary(sale.Items),
		money.Fixed(sale.Subtotal),
		money.Fixed(sale.Total),
		string(sale.PaymentMethod),
		"",
		"",
	}
	if sale.PaymentMethod == enum.PaymentMethodCash {
		row[8] = optionalFixed(sale.AmountTendered)
		row[9] = optionalFixed(sale.ChangeGiven)
	}
	return row
}

// ExportCSV writes a header row and one row per sale
func (s *SalesService) ExportCSV(w io.Writer, sales []entity.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for i := range sales {
		if err := cw.Write(ExportRow(&sales[i], s.location)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the same rows as ExportCSV into a one-sheet workbook
func (s *SalesService) ExportXLSX(w io.Writer, sales []entity.Sale) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("closing workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return f.SetSheetRow(exportSheet, cell, &row)
	}

	if err := writeRow(1, ExportHeader); err != nil {
		return err
	}
	for i := range sales {
		if err := writeRow(i+2, ExportRow(&sales[i], s.location)); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
