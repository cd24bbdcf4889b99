package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"github.com/sangkips/mscheesy-pos/pkg/printer"
	"github.com/sangkips/mscheesy-pos/pkg/receipt"
	"go.uber.org/zap"
)

// PrintDispatcher sends rendered receipts to the configured printer.
type PrintDispatcher struct {
	printer printer.Printer
	ascii   bool
}

// NewPrintDispatcher creates a dispatcher. With ascii set, characters the
// printer code page lacks are replaced before sending.
func NewPrintDispatcher(p printer.Printer, ascii bool) *PrintDispatcher {
	return &PrintDispatcher{printer: p, ascii: ascii}
}

// Printer returns the underlying device
func (d *PrintDispatcher) Printer() printer.Printer {
	return d.printer
}

// Dispatch prints the customer copy then the kitchen copy. Nothing is sent
// when printing is disabled in settings.
func (d *PrintDispatcher) Dispatch(ctx context.Context, receipts entity.Receipts, settings entity.PrinterSettings) error {
	if !settings.Enabled {
		return apperror.ErrPrintingDisabled
	}
	for _, text := range []string{receipts.Customer, receipts.Kitchen} {
		if text == "" {
			continue
		}
		if err := d.printer.Print(ctx, printer.ReceiptDocument(text, d.ascii)); err != nil {
			return err
		}
	}
	return nil
}

// PrinterStatus describes the printer as seen from this terminal
type PrinterStatus struct {
	Type      string                 `json:"type"`
	Connected bool                   `json:"connected"`
	Settings  entity.PrinterSettings `json:"settings"`
}

// ReceiptPreview is a stored sale with both rendered copies
type ReceiptPreview struct {
	Receipt  entity.ReceiptData `json:"receipt"`
	Customer string             `json:"customer"`
	Kitchen  string             `json:"kitchen"`
}

// ReceiptConfig describes the store printed on every customer copy.
type ReceiptConfig struct {
	Store         receipt.Store
	Currency      string
	ReceiptPrefix string
	Location      *time.Location
}

// ReceiptService renders and prints receipts and owns the printer settings.
type ReceiptService struct {
	saleRepo   repository.SaleRepository
	settings   repository.PrinterSettingsRepository
	dispatcher *PrintDispatcher
	cfg        ReceiptConfig
	metrics    *metrics.Registry
	logger     *zap.Logger
	now        func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	saleRepo repository.SaleRepository,
	settings repository.PrinterSettingsRepository,
	dispatcher *PrintDispatcher,
	cfg ReceiptConfig,
	registry *metrics.Registry,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		saleRepo:   saleRepo,
		settings:   settings,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    registry,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ReceiptService) options(settings entity.PrinterSettings) receipt.Options {
	return receipt.Options{
		Width:    settings.Width,
		Store:    s.cfg.Store,
		Currency: s.cfg.Currency,
		Location: s.cfg.Location,
	}
}

func (s *ReceiptService) countPrint(result string) {
	if s.metrics != nil {
		s.metrics.Prints.WithLabelValues(result).Inc()
	}
}

func (s *ReceiptService) loadSettings(ctx context.Context) entity.PrinterSettings {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("printer settings unreadable, using defaults", zap.Error(err))
		return entity.DefaultPrinterSettings()
	}
	return settings
}

// dispatch prints and maps the outcome to the print error taxonomy
func (s *ReceiptService) dispatch(ctx context.Context, receipts entity.Receipts, settings entity.PrinterSettings) error {
	err := s.dispatcher.Dispatch(ctx, receipts, settings)
	switch {
	case err == nil:
		s.countPrint(metrics.PrintSucceeded)
		return nil
	case errors.Is(err, apperror.ErrPrintingDisabled):
		s.countPrint(metrics.PrintDisabled)
		return err
	default:
		s.countPrint(metrics.PrintFailed)
		return apperror.NewPrintError("Could not print the receipt, check the printer and try again", err)
	}
}

// Name identifies the hook in logs
func (s *ReceiptService) Name() string { return "receipt" }

// Render formats both copies with the current receipt width
func (s *ReceiptService) Render(ctx context.Context, data *entity.ReceiptData) entity.Receipts {
	return receipt.Render(data, s.options(s.loadSettings(ctx)))
}

// AfterCommit prints both copies of a fresh sale when auto print is on and
// then flags the sale as printed. Failures are returned for logging only.
func (s *ReceiptService) AfterCommit(ctx context.Context, result *CheckoutResult) error {
	settings := s.loadSettings(ctx)
	if !settings.Enabled || !settings.AutoPrint {
		return nil
	}

	receipts := result.Receipts
	if receipts.Customer == "" || receipts.Kitchen == "" {
		receipts = receipt.Render(&result.Receipt, s.options(settings))
	}
	if err := s.dispatch(ctx, receipts, settings); err != nil {
		return err
	}

	if err := s.saleRepo.MarkReceiptPrinted(ctx, result.SaleID); err != nil {
		s.logger.Warn("could not flag receipt as printed",
			zap.String("receipt_number", result.ReceiptNumber),
			zap.Error(err),
		)
	}
	return nil
}

// Status reports the printer type, whether it answers, and the current settings
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	p := s.dispatcher.Printer()
	return &PrinterStatus{
		Type:      p.Type(),
		Connected: p.IsConnected(ctx),
		Settings:  s.loadSettings(ctx),
	}
}

// TestReceipt builds the sample sale used by the test print.
func (s *ReceiptService) TestReceipt() *entity.ReceiptData {
	now := s.now()
	if s.cfg.Location != nil {
		now = now.In(s.cfg.Location)
	}
	tendered, change := int64(20000), int64(5000)
	return &entity.ReceiptData{
		ReceiptNumber:  s.cfg.ReceiptPrefix + "-" + now.Format("20060102") + "-TEST",
		OrderNumber:    "ORD-TEST-001",
		CustomerName:   "Test Customer",
		SaleDate:       now,
		Subtotal:       15000,
		Total:          15000,
		PaymentMethod:  enum.PaymentMethodCash,
		AmountTendered: &tendered,
		ChangeGiven:    &change,
		Items: []entity.ReceiptItem{
			{Name: "Classic Cheeseburger", Quantity: 2, UnitPrice: 5000, LineTotal: 10000},
			{Name: "Fries", Quantity: 1, UnitPrice: 5000, LineTotal: 5000},
		},
	}
}

// TestPrint prints the sample customer copy and returns its text
func (s *ReceiptService) TestPrint(ctx context.Context) (string, error) {
	settings := s.loadSettings(ctx)
	text := receipt.Customer(s.TestReceipt(), s.options(settings))
	if err := s.dispatch(ctx, entity.Receipts{Customer: text}, settings); err != nil {
		return text, err
	}
	return text, nil
}

func (s *ReceiptService) storedReceipt(ctx context.Context, saleID uuid.UUID) (*entity.ReceiptData, error) {
	data, err := s.saleRepo.GetReceipt(ctx, saleID)
	if err != nil {
		return nil, apperror.NewPersistenceError("Could not load the receipt", err)
	}
	if data == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return data, nil
}

// Preview renders both copies of a stored sale without printing
func (s *ReceiptService) Preview(ctx context.Context, saleID uuid.UUID) (*ReceiptPreview, error) {
	data, err := s.storedReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}
	receipts := receipt.Render(data, s.options(s.loadSettings(ctx)))
	return &ReceiptPreview{Receipt: *data, Customer: receipts.Customer, Kitchen: receipts.Kitchen}, nil
}

// Reprint prints a stored sale again on request and flags it as printed
func (s *ReceiptService) Reprint(ctx context.Context, saleID uuid.UUID) (*ReceiptPreview, error) {
	data, err := s.storedReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}
	settings := s.loadSettings(ctx)
	receipts := receipt.Render(data, s.options(settings))
	preview := &ReceiptPreview{Receipt: *data, Customer: receipts.Customer, Kitchen: receipts.Kitchen}

	if err := s.dispatch(ctx, receipts, settings); err != nil {
		s.logger.Warn("reprint failed", zap.String("receipt_number", data.ReceiptNumber), zap.Error(err))
		return preview, err
	}
	if err := s.saleRepo.MarkReceiptPrinted(ctx, saleID); err != nil {
		s.logger.Warn("could not flag receipt as printed", zap.String("receipt_number", data.ReceiptNumber), zap.Error(err))
	}
	return preview, nil
}

// GetSettings returns the device printer settings
func (s *ReceiptService) GetSettings(ctx context.Context) (entity.PrinterSettings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return entity.PrinterSettings{}, apperror.NewPersistenceError("Could not load printer settings", err)
	}
	return settings, nil
}

// UpdateSettings validates and stores the printer settings
func (s *ReceiptService) UpdateSettings(ctx context.Context, settings entity.PrinterSettings) (entity.PrinterSettings, error) {
	if err := settings.Validate(); err != nil {
		return entity.PrinterSettings{}, apperror.NewValidationError([]apperror.FieldError{
			{Field: "width", Message: err.Error()},
		})
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return entity.PrinterSettings{}, apperror.NewPersistenceError("Could not save printer settings", err)
	}
	s.logger.Info("printer settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.Int("width", settings.Width),
		zap.Bool("auto_print", settings.AutoPrint),
	)
	return settings, nil
}
