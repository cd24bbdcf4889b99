package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/sangkips/mscheesy-pos/pkg/printer"
	"github.com/sangkips/mscheesy-pos/pkg/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type receiptFixture struct {
	sales    *stubSaleRepo
	settings *stubSettingsRepo
	printer  *printer.MemoryPrinter
	registry *metrics.Registry
	svc      *ReceiptService
}

func newReceiptFixture(settings entity.PrinterSettings) *receiptFixture {
	f := &receiptFixture{
		sales:    newStubSaleRepo(),
		settings: &stubSettingsRepo{settings: settings},
		printer:  printer.NewMemoryPrinter(),
		registry: metrics.NewRegistry(),
	}
	f.svc = NewReceiptService(
		f.sales,
		f.settings,
		NewPrintDispatcher(f.printer, false),
		ReceiptConfig{
			Store:         receipt.Store{Name: "Ms. Cheesy", Address: "Makati City", Phone: "0917-000-0000"},
			Currency:      "₱",
			ReceiptPrefix: "MSC",
			Location:      time.UTC,
		},
		f.registry,
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return placedAt }
	return f
}

func committedResult() *CheckoutResult {
	tendered, change := int64(25000), int64(5000)
	saleID := uuid.New()
	return &CheckoutResult{
		State:         enum.CheckoutSucceeded,
		SaleID:        saleID,
		OrderNumber:   "#001",
		ReceiptNumber: "MSC-20241101-0001",
		Total:         20000,
		Change:        change,
		ItemCount:     3,
		Receipt: entity.ReceiptData{
			SaleID:         saleID,
			ReceiptNumber:  "MSC-20241101-0001",
			OrderNumber:    "#001",
			CustomerName:   "Juan",
			SaleDate:       placedAt,
			Subtotal:       20000,
			Total:          20000,
			PaymentMethod:  enum.PaymentMethodCash,
			AmountTendered: &tendered,
			ChangeGiven:    &change,
			Items: []entity.ReceiptItem{
				{Name: "Burger", Quantity: 2, UnitPrice: 5000, LineTotal: 10000},
				{Name: "Cola", Quantity: 1, UnitPrice: 10000, LineTotal: 10000},
			},
		},
	}
}

func TestReceiptService_AutoPrintPrintsBothCopies(t *testing.T) {
	f := newReceiptFixture(entity.PrinterSettings{Enabled: true, Width: 32, AutoPrint: true})
	result := committedResult()

	require.NoError(t, f.svc.AfterCommit(context.Background(), result))

	jobs := f.printer.Jobs()
	require.Len(t, jobs, 2)
	assert.True(t, bytes.Contains(jobs[0], []byte("CUSTOMER COPY")))
	assert.True(t, bytes.Contains(jobs[0], []byte("₱50.00")))
	assert.True(t, bytes.Contains(jobs[1], []byte("KITCHEN COPY")))
	assert.False(t, bytes.Contains(jobs[1], []byte("₱")))
	assert.Equal(t, []uuid.UUID{result.SaleID}, f.sales.printedIDs())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.registry.Prints.WithLabelValues(metrics.PrintSucceeded)))
}

func TestReceiptService_NoAutoPrintWithoutOptIn(t *testing.T) {
	for name, settings := range map[string]entity.PrinterSettings{
		"disabled":     {Enabled: false, Width: 40, AutoPrint: true},
		"manual print": {Enabled: true, Width: 40, AutoPrint: false},
	} {
		t.Run(name, func(t *testing.T) {
			f := newReceiptFixture(settings)
			require.NoError(t, f.svc.AfterCommit(context.Background(), committedResult()))
			assert.Empty(t, f.printer.Jobs())
			assert.Empty(t, f.sales.printedIDs())
		})
	}
}

func TestReceiptService_PrinterFailureIsPrintError(t *testing.T) {
	f := newReceiptFixture(entity.PrinterSettings{Enabled: true, Width: 40, AutoPrint: true})
	f.printer.FailWith(errors.New("paper out"))

	err := f.svc.AfterCommit(context.Background(), committedResult())
	require.Error(t, err)
	assert.True(t, apperror.IsPrint(err))
	assert.Empty(t, f.sales.printedIDs())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.registry.Prints.WithLabelValues(metrics.PrintFailed)))
}

func TestReceiptService_TestPrint(t *testing.T) {
	f := newReceiptFixture(entity.DefaultPrinterSettings())

	text, err := f.svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Receipt #: MSC-20241101-TEST")
	assert.Contains(t, text, "Customer: Test Customer")
	assert.Contains(t, text, "2x Classic Cheeseburger")
	assert.Len(t, f.printer.Jobs(), 1)
}

func TestReceiptService_TestPrintWhenDisabled(t *testing.T) {
	f := newReceiptFixture(entity.PrinterSettings{Enabled: false, Width: 40})

	text, err := f.svc.TestPrint(context.Background())
	assert.ErrorIs(t, err, apperror.ErrPrintingDisabled)
	assert.NotEmpty(t, text)
	assert.Empty(t, f.printer.Jobs())
}

func TestReceiptService_ReprintStoredSale(t *testing.T) {
	f := newReceiptFixture(entity.DefaultPrinterSettings())
	result := committedResult()
	f.sales.receipts[result.SaleID] = &result.Receipt

	preview, err := f.svc.Reprint(context.Background(), result.SaleID)
	require.NoError(t, err)
	assert.Contains(t, preview.Customer, "Order #: #001")
	assert.NotContains(t, preview.Kitchen, "200.00")
	assert.Len(t, f.printer.Jobs(), 2)
	assert.Equal(t, []uuid.UUID{result.SaleID}, f.sales.printedIDs())

	_, err = f.svc.Reprint(context.Background(), uuid.New())
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestReceiptService_PreviewDoesNotPrint(t *testing.T) {
	f := newReceiptFixture(entity.DefaultPrinterSettings())
	result := committedResult()
	f.sales.receipts[result.SaleID] = &result.Receipt

	preview, err := f.svc.Preview(context.Background(), result.SaleID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Render(&result.Receipt, f.svc.options(entity.DefaultPrinterSettings())).Customer, preview.Customer)
	assert.Empty(t, f.printer.Jobs())
}

func TestReceiptService_UpdateSettings(t *testing.T) {
	f := newReceiptFixture(entity.DefaultPrinterSettings())

	_, err := f.svc.UpdateSettings(context.Background(), entity.PrinterSettings{Enabled: true, Width: 10})
	require.Error(t, err)
	assert.Equal(t, "width", apperror.GetAppError(err).Errors[0].Field)
	assert.Equal(t, 0, f.settings.saved)

	saved, err := f.svc.UpdateSettings(context.Background(), entity.PrinterSettings{Enabled: true, Width: 58, AutoPrint: true})
	require.NoError(t, err)
	assert.Equal(t, 58, saved.Width)
	assert.Equal(t, saved, f.settings.settings)

	status := f.svc.Status(context.Background())
	assert.Equal(t, printer.TypeMemory, status.Type)
	assert.True(t, status.Connected)
	assert.True(t, status.Settings.AutoPrint)
}
