package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/internal/infrastructure/metrics"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// Checkout validation messages shown to the cashier.
const (
	MsgCustomerNameRequired = "Customer name is required"
	MsgEmptyOrder           = "Cannot process payment for empty order"
	MsgTenderedRequired     = "Amount tendered is required for cash payments"
	MsgTenderedTooLow       = "Amount tendered is less than the total"
	MsgUnknownPayment       = "Payment method must be cash or digital"
	msgOrderNotSaved        = "Could not save the order, please try again"
)

// hookTimeout bounds the post-commit work of a single checkout.
const hookTimeout = 30 * time.Second

// CheckoutRequest is the payment side of a checkout. AmountTendered is in
// cents and only read for cash payments.
type CheckoutRequest struct {
	PaymentMethod  enum.PaymentMethod
	AmountTendered *int64
	CashierID      *uuid.UUID
}

// CheckoutResult is the outcome of a committed checkout.
type CheckoutResult struct {
	State         enum.CheckoutState
	OrderID       uuid.UUID
	SaleID        uuid.UUID
	OrderNumber   string
	ReceiptNumber string
	Total         int64
	Change        int64
	ItemCount     int
	Receipt       entity.ReceiptData
	// Receipts holds the rendered customer and kitchen copies. They are
	// produced on every checkout whether or not anything gets printed.
	Receipts entity.Receipts
}

// CommitHook runs after an order is committed. Hooks cannot fail the
// checkout; their errors and panics are logged.
type CommitHook interface {
	Name() string
	AfterCommit(ctx context.Context, result *CheckoutResult) error
}

// ReceiptRenderer formats both copies of a committed sale
type ReceiptRenderer interface {
	Render(ctx context.Context, data *entity.ReceiptData) entity.Receipts
}

// Scheduler runs fn after d. It only paces the UI; nothing depends on the delay for correctness.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules with time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// ImmediateScheduler runs fn right away
type ImmediateScheduler struct{}

func (ImmediateScheduler) AfterFunc(_ time.Duration, fn func()) { fn() }

// CheckoutConfig holds the deployment settings of the checkout flow.
type CheckoutConfig struct {
	ReceiptPrefix string
	ConfirmDelay  time.Duration
	// Location is the store time zone. Receipt numbers carry the store's calendar day.
	Location *time.Location
}

// CheckoutOption customizes a CheckoutService
type CheckoutOption func(*CheckoutService)

// WithScheduler replaces the timer used to clear the cart after success
func WithScheduler(s Scheduler) CheckoutOption {
	return func(cs *CheckoutService) { cs.scheduler = s }
}

// WithHookRunner replaces the goroutine launcher of the post-commit hooks
func WithHookRunner(run func(func())) CheckoutOption {
	return func(cs *CheckoutService) { cs.runHooks = run }
}

// WithReceiptRenderer sets the formatter used right after commit
func WithReceiptRenderer(r ReceiptRenderer) CheckoutOption {
	return func(cs *CheckoutService) { cs.renderer = r }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) CheckoutOption {
	return func(cs *CheckoutService) { cs.now = now }
}

// CheckoutService turns a terminal's cart into a committed order and sale.
type CheckoutService struct {
	carts     *CartService
	orderRepo repository.OrderRepository
	hooks     []CommitHook
	renderer  ReceiptRenderer
	metrics   *metrics.Registry
	cfg       CheckoutConfig
	logger    *zap.Logger

	scheduler Scheduler
	runHooks  func(func())
	now       func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	carts *CartService,
	orderRepo repository.OrderRepository,
	hooks []CommitHook,
	registry *metrics.Registry,
	cfg CheckoutConfig,
	logger *zap.Logger,
	opts ...CheckoutOption,
) *CheckoutService {
	s := &CheckoutService{
		carts:     carts,
		orderRepo: orderRepo,
		hooks:     hooks,
		metrics:   registry,
		cfg:       cfg,
		logger:    logger,
		scheduler: TimerScheduler{},
		runHooks:  func(fn func()) { go fn() },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeChange returns tendered minus total, never below zero
func ComputeChange(total, tendered int64) int64 {
	if tendered < total {
		return 0
	}
	return tendered - total
}

func validateCheckout(c *entity.Cart, req *CheckoutRequest) error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return apperror.NewValidationFailure(MsgCustomerNameRequired)
	}
	if c.IsEmpty() {
		return apperror.NewValidationFailure(MsgEmptyOrder)
	}
	if !req.PaymentMethod.IsValid() {
		return apperror.NewValidationFailure(MsgUnknownPayment)
	}
	if req.PaymentMethod == enum.PaymentMethodCash {
		if req.AmountTendered == nil {
			return apperror.NewValidationFailure(MsgTenderedRequired)
		}
		if *req.AmountTendered < c.Total() {
			return apperror.NewValidationFailure(MsgTenderedTooLow)
		}
	}
	return nil
}

func (s *CheckoutService) countCheckout(result string) {
	if s.metrics != nil {
		s.metrics.Checkouts.WithLabelValues(result).Inc()
	}
}

// Checkout validates the terminal's cart, commits it and schedules the
// post-commit work. Validation and persistence failures leave the cart as it
// was. Once submission starts it runs to completion even if ctx is cancelled.
func (s *CheckoutService) Checkout(ctx context.Context, terminalID string, req *CheckoutRequest) (*CheckoutResult, error) {
	snapshot, err := s.carts.beginCheckout(terminalID, func(c *entity.Cart) error {
		return validateCheckout(c, req)
	})
	if err != nil {
		s.countCheckout(metrics.CheckoutRejected)
		return nil, err
	}

	order := s.newOrder(snapshot, req)
	started := s.now()
	created, err := s.orderRepo.CreateOrder(context.WithoutCancel(ctx), order)
	if s.metrics != nil {
		s.metrics.CheckoutLatency.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		s.carts.finishCheckout(terminalID, nil)
		s.countCheckout(metrics.CheckoutFailed)
		s.logger.Error("checkout failed",
			zap.String("terminal_id", terminalID),
			zap.String("customer", snapshot.customerName),
			zap.Error(err),
		)
		return nil, apperror.NewPersistenceError(msgOrderNotSaved, err)
	}

	result := &CheckoutResult{
		State:         enum.CheckoutSucceeded,
		OrderID:       created.OrderID,
		SaleID:        created.SaleID,
		OrderNumber:   created.OrderNumber,
		ReceiptNumber: created.ReceiptNumber,
		Total:         order.Total,
		ItemCount:     created.Receipt.ItemCount(),
		Receipt:       created.Receipt,
	}
	if order.ChangeGiven != nil {
		result.Change = *order.ChangeGiven
	}
	result.Receipts = s.renderReceipts(ctx, &result.Receipt)

	s.carts.finishCheckout(terminalID, &entity.CheckoutConfirmation{
		OrderID:       result.OrderID,
		SaleID:        result.SaleID,
		OrderNumber:   result.OrderNumber,
		ReceiptNumber: result.ReceiptNumber,
		Total:         result.Total,
		Change:        result.Change,
	})
	s.countCheckout(metrics.CheckoutSucceeded)
	s.logger.Info("order committed",
		zap.String("order_number", result.OrderNumber),
		zap.String("receipt_number", result.ReceiptNumber),
		zap.String("terminal_id", terminalID),
		zap.Int64("total_cents", result.Total),
	)

	s.scheduler.AfterFunc(s.cfg.ConfirmDelay, func() {
		s.carts.clearAfterSuccess(terminalID, result.OrderID)
	})

	hookResult := *result
	hookCtx := context.WithoutCancel(ctx)
	s.runHooks(func() { s.afterCommit(hookCtx, &hookResult) })

	return result, nil
}

func (s *CheckoutService) newOrder(snapshot *cartSnapshot, req *CheckoutRequest) *repository.NewOrder {
	lines := make([]repository.NewOrderLine, 0, len(snapshot.lines))
	for _, l := range snapshot.lines {
		lines = append(lines, repository.NewOrderLine{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Category:  l.Product.Category,
			UnitPrice: l.Product.Price,
			Quantity:  l.Quantity,
		})
	}

	placedAt := s.now()
	if s.cfg.Location != nil {
		placedAt = placedAt.In(s.cfg.Location)
	}

	order := &repository.NewOrder{
		OrderID:       snapshot.orderID,
		CustomerName:  snapshot.customerName,
		Lines:         lines,
		Subtotal:      snapshot.subtotal,
		Total:         snapshot.total,
		PaymentMethod: req.PaymentMethod,
		CashierID:     req.CashierID,
		ReceiptPrefix: s.cfg.ReceiptPrefix,
		PlacedAt:      placedAt,
	}
	if req.PaymentMethod == enum.PaymentMethodCash && req.AmountTendered != nil {
		tendered := *req.AmountTendered
		change := ComputeChange(order.Total, tendered)
		order.AmountTendered = &tendered
		order.ChangeGiven = &change
	}
	return order
}

// renderReceipts formats the committed sale. A formatter failure is logged
// and leaves the texts empty; the order stays committed.
func (s *CheckoutService) renderReceipts(ctx context.Context, data *entity.ReceiptData) (receipts entity.Receipts) {
	if s.renderer == nil {
		return entity.Receipts{}
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("receipt rendering failed",
				zap.String("receipt_number", data.ReceiptNumber),
				zap.Any("panic", r),
			)
			receipts = entity.Receipts{}
		}
	}()
	return s.renderer.Render(context.WithoutCancel(ctx), data)
}

// afterCommit runs every hook in order. A failing hook does not stop the next one.
func (s *CheckoutService) afterCommit(ctx context.Context, result *CheckoutResult) {
	ctx, cancel := context.WithTimeout(ctx, hookTimeout)
	defer cancel()

	for _, hook := range s.hooks {
		if err := s.runHook(ctx, hook, result); err != nil {
			s.logger.Warn("post-commit hook failed",
				zap.String("hook", hook.Name()),
				zap.String("order_number", result.OrderNumber),
				zap.Error(err),
			)
		}
	}
}

func (s *CheckoutService) runHook(ctx context.Context, hook CommitHook, result *CheckoutResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook.AfterCommit(ctx, result)
}
