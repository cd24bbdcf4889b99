package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// CartService keeps the in-progress cart of every terminal in memory.
// All access to a cart goes through mu.
type CartService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *zap.Logger

	mu    sync.Mutex
	carts map[string]*entity.Cart
}

// NewCartService creates a new cart service
func NewCartService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository, logger *zap.Logger) *CartService {
	return &CartService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
		carts:       make(map[string]*entity.Cart),
	}
}

// cart returns the terminal's cart, creating it on first use.
// Callers hold s.mu.
func (s *CartService) cart(terminalID string) *entity.Cart {
	c, ok := s.carts[terminalID]
	if !ok {
		c = entity.NewCart(terminalID)
		s.carts[terminalID] = c
	}
	return c
}

// mutableCart is cart for callers about to change it. A cart still showing a
// successful checkout is cleared first so the committed lines cannot be
// edited or submitted again.
func (s *CartService) mutableCart(terminalID string) *entity.Cart {
	c := s.cart(terminalID)
	if c.State == enum.CheckoutSucceeded && !c.Submitting {
		c.Clear()
	}
	return c
}

// withCart runs fn on the terminal's cart and returns a snapshot of the result.
func (s *CartService) withCart(terminalID string, fn func(c *entity.Cart) error) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn == nil {
		return s.cart(terminalID).Clone(), nil
	}
	c := s.mutableCart(terminalID)
	if err := fn(c); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func rejectWhileSubmitting(c *entity.Cart) error {
	if c.Submitting {
		return apperror.ErrCheckoutInProgress
	}
	return nil
}

// previewOrderNumber fills in the number the next order will probably get.
// The committed number is assigned by the database at checkout.
func (s *CartService) previewOrderNumber(ctx context.Context, c *entity.Cart) {
	count, err := s.orderRepo.CurrentOrderCount(ctx)
	if err != nil {
		s.logger.Warn("order number preview unavailable", zap.Error(err))
		return
	}
	c.OrderNumber = entity.FormatOrderNumber(count + 1)
}

// Get returns the terminal's cart
func (s *CartService) Get(ctx context.Context, terminalID string) (*entity.Cart, error) {
	c, err := s.withCart(terminalID, nil)
	if err != nil {
		return nil, err
	}
	s.previewOrderNumber(ctx, c)
	return c, nil
}

// AddItem adds one unit of a product. An unavailable product leaves the cart
// unchanged and comes back as a warning notice, not an error.
func (s *CartService) AddItem(ctx context.Context, terminalID string, productID uuid.UUID) (*entity.Cart, entity.Notice, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, entity.Notice{}, apperror.NewPersistenceError(productLoadFailureMsg, err)
	}
	if product == nil {
		return nil, entity.Notice{}, apperror.NewNotFoundError("Product")
	}

	var notice entity.Notice
	c, err := s.withCart(terminalID, func(c *entity.Cart) error {
		if err := rejectWhileSubmitting(c); err != nil {
			return err
		}
		notice = c.AddItem(*product)
		return nil
	})
	if err != nil {
		return nil, entity.Notice{}, err
	}
	s.previewOrderNumber(ctx, c)
	return c, notice, nil
}

// RemoveItem drops the product's line; unknown products are ignored
func (s *CartService) RemoveItem(ctx context.Context, terminalID string, productID uuid.UUID) (*entity.Cart, error) {
	c, err := s.withCart(terminalID, func(c *entity.Cart) error {
		if err := rejectWhileSubmitting(c); err != nil {
			return err
		}
		c.RemoveItem(productID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.previewOrderNumber(ctx, c)
	return c, nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, terminalID string, productID uuid.UUID, quantity int) (*entity.Cart, error) {
	c, err := s.withCart(terminalID, func(c *entity.Cart) error {
		if err := rejectWhileSubmitting(c); err != nil {
			return err
		}
		if !c.UpdateQuantity(productID, quantity) && quantity > 0 {
			return apperror.NewNotFoundError("Cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.previewOrderNumber(ctx, c)
	return c, nil
}

// SetCustomerName stores the name; blank names are rejected only at checkout
func (s *CartService) SetCustomerName(ctx context.Context, terminalID, name string) (*entity.Cart, error) {
	c, err := s.withCart(terminalID, func(c *entity.Cart) error {
		if err := rejectWhileSubmitting(c); err != nil {
			return err
		}
		c.SetCustomerName(name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.previewOrderNumber(ctx, c)
	return c, nil
}

// Clear empties the cart. It is refused while a checkout is in flight.
func (s *CartService) Clear(ctx context.Context, terminalID string) (*entity.Cart, error) {
	c, err := s.withCart(terminalID, func(c *entity.Cart) error {
		if err := rejectWhileSubmitting(c); err != nil {
			return err
		}
		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.previewOrderNumber(ctx, c)
	return c, nil
}

// EvictIdle drops carts not changed since cutoff and returns how many went.
// A cart in the middle of a checkout is kept.
func (s *CartService) EvictIdle(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, c := range s.carts {
		if c.Submitting || !c.UpdatedAt.Before(cutoff) {
			continue
		}
		delete(s.carts, id)
		n++
	}
	return n
}

// cartSnapshot is the frozen view of a cart taken when submission begins.
type cartSnapshot struct {
	orderID      uuid.UUID
	customerName string
	lines        []entity.CartLine
	subtotal     int64
	total        int64
}

// beginCheckout validates the cart and marks it submitting. validate runs
// under the lock with the cart in the validating state; an error from it
// leaves the cart contents untouched and the state failed.
func (s *CartService) beginCheckout(terminalID string, validate func(c *entity.Cart) error) (*cartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.mutableCart(terminalID)
	if c.Submitting {
		return nil, apperror.ErrCheckoutInProgress
	}

	c.State = enum.CheckoutValidating
	if err := validate(c); err != nil {
		c.State = enum.CheckoutFailed
		return nil, err
	}
	if err := c.BeginSubmit(); err != nil {
		return nil, apperror.ErrCheckoutInProgress
	}

	return &cartSnapshot{
		orderID:      c.PendingOrderID(),
		customerName: strings.TrimSpace(c.CustomerName),
		lines:        c.Lines(),
		subtotal:     c.Subtotal(),
		total:        c.Total(),
	}, nil
}

// finishCheckout records the outcome of a submission started by beginCheckout.
func (s *CartService) finishCheckout(terminalID string, confirmation *entity.CheckoutConfirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[terminalID]
	if !ok {
		return
	}
	if confirmation == nil {
		c.EndSubmit(enum.CheckoutFailed)
		return
	}
	c.LastResult = confirmation
	c.EndSubmit(enum.CheckoutSucceeded)
}

// clearAfterSuccess empties the cart if it still shows the given order as its
// latest success. A cart that moved on since is left alone.
func (s *CartService) clearAfterSuccess(terminalID string, orderID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[terminalID]
	if !ok || c.Submitting || c.State != enum.CheckoutSucceeded {
		return
	}
	if c.LastResult == nil || c.LastResult.OrderID != orderID {
		return
	}
	c.Clear()
}
