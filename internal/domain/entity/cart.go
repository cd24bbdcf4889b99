package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

// ErrSubmitInFlight is returned by BeginSubmit while another checkout of the same cart runs.
var ErrSubmitInFlight = errors.New("cart: checkout already in flight")

// NoticeLevel is the severity of a transient cashier notification.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a short message for the cashier produced by a cart mutation.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// CartLine is one product and its quantity. Quantity is always >= 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price x quantity in cents
func (l CartLine) LineTotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CheckoutConfirmation is what the terminal shows after a successful checkout.
type CheckoutConfirmation struct {
	OrderID       uuid.UUID `json:"order_id"`
	SaleID        uuid.UUID `json:"sale_id"`
	OrderNumber   string    `json:"order_number"`
	ReceiptNumber string    `json:"receipt_number"`
	Total         int64     `json:"-"`
	Change        int64     `json:"-"`
}

// MarshalJSON converts cents to decimals
func (c CheckoutConfirmation) MarshalJSON() ([]byte, error) {
	type Alias CheckoutConfirmation
	return json.Marshal(&struct {
		Alias
		Total  float64 `json:"total"`
		Change float64 `json:"change"`
	}{
		Alias:  Alias(c),
		Total:  money.ToFloat(c.Total),
		Change: money.ToFloat(c.Change),
	})
}

// Cart is the in-progress order of one terminal. It is never persisted.
type Cart struct {
	TerminalID   string
	CustomerName string
	OrderNumber  string
	Submitting   bool
	State        enum.CheckoutState
	LastResult   *CheckoutConfirmation
	UpdatedAt    time.Time

	lines []CartLine
	// pendingOrderID is the id the next submission commits under. It
	// survives a failed attempt and is reset by any change to the cart.
	pendingOrderID uuid.UUID
}

// NewCart creates an empty cart for a terminal.
func NewCart(terminalID string) *Cart {
	return &Cart{TerminalID: terminalID, State: enum.CheckoutIdle, UpdatedAt: time.Now()}
}

// FormatOrderNumber renders a counter value as "#NNN".
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("#%03d", n)
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
	c.pendingOrderID = uuid.Nil
}

// AddItem adds one unit of product. Unavailable products are refused with a warning notice.
func (c *Cart) AddItem(product Product) Notice {
	if !product.IsAvailable {
		return Notice{Level: NoticeWarning, Message: product.Name + " is currently unavailable"}
	}
	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, CartLine{Product: product, Quantity: 1})
	}
	c.touch()
	return Notice{Level: NoticeInfo, Message: product.Name + " added to order"}
}

// RemoveItem deletes the line for productID if present.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.touch()
}

// UpdateQuantity sets the quantity of an existing line; quantity <= 0 removes it.
// It reports whether a line for productID existed.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		c.RemoveItem(productID)
		return true
	}
	c.lines[i].Quantity = quantity
	c.touch()
	return true
}

// SetCustomerName stores the name as given; it is validated at checkout.
func (c *Cart) SetCustomerName(name string) {
	c.CustomerName = name
	c.touch()
}

// Clear resets the cart to empty.
func (c *Cart) Clear() {
	c.lines = nil
	c.CustomerName = ""
	c.Submitting = false
	c.State = enum.CheckoutIdle
	c.touch()
}

// Clone returns a deep copy safe to read without the owner's lock.
func (c *Cart) Clone() *Cart {
	out := *c
	out.lines = c.Lines()
	if c.LastResult != nil {
		last := *c.LastResult
		out.LastResult = &last
	}
	return &out
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total number of units in the cart.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of price x quantity over all lines, in cents.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.LineTotal()
	}
	return sum
}

// Total equals Subtotal: no tax is applied.
func (c *Cart) Total() int64 {
	return c.Subtotal()
}

// BeginSubmit marks the cart as submitting. Only one submission may be in flight.
// A retry of an unchanged cart after a failure keeps the same pending order id.
func (c *Cart) BeginSubmit() error {
	if c.Submitting {
		return ErrSubmitInFlight
	}
	if c.pendingOrderID == uuid.Nil {
		c.pendingOrderID = uuid.New()
	}
	c.Submitting = true
	c.State = enum.CheckoutSubmitting
	return nil
}

// PendingOrderID is the order id of the current or last failed submission.
func (c *Cart) PendingOrderID() uuid.UUID {
	return c.pendingOrderID
}

// EndSubmit releases the submission flag and records the outcome.
func (c *Cart) EndSubmit(state enum.CheckoutState) {
	c.Submitting = false
	c.State = state
	if state == enum.CheckoutSucceeded {
		c.pendingOrderID = uuid.Nil
	}
}

// MarshalJSON renders the cart with derived totals
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TerminalID   string                `json:"terminal_id"`
		CustomerName string                `json:"customer_name"`
		OrderNumber  string                `json:"order_number"`
		Items        []CartLine            `json:"items"`
		ItemCount    int                   `json:"item_count"`
		Subtotal     float64               `json:"subtotal"`
		Total        float64               `json:"total"`
		Submitting   bool                  `json:"submitting"`
		State        enum.CheckoutState    `json:"state"`
		LastResult   *CheckoutConfirmation `json:"last_result,omitempty"`
		UpdatedAt    time.Time             `json:"updated_at"`
	}{
		TerminalID:   c.TerminalID,
		CustomerName: c.CustomerName,
		OrderNumber:  c.OrderNumber,
		Items:        c.Lines(),
		ItemCount:    c.ItemCount(),
		Subtotal:     money.ToFloat(c.Subtotal()),
		Total:        money.ToFloat(c.Total()),
		Submitting:   c.Submitting,
		State:        c.State,
		LastResult:   c.LastResult,
		UpdatedAt:    c.UpdatedAt,
	})
}
