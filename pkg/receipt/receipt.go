// Package receipt lays out committed sales as fixed-width text for thermal printers.
//
// Every function is pure: the same ReceiptData and Options always give the
// same bytes. Widths are counted in runes so that a currency symbol such as
// "₱" occupies one column.
package receipt

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
)

// DefaultWidth is used when Options.Width is not positive.
const DefaultWidth = 40

const ellipsis = "..."

// Store is the identity block printed at the top of the customer copy.
type Store struct {
	Name    string
	Address string
	Phone   string
}

// Options control the layout.
type Options struct {
	Width    int
	Store    Store
	Currency string
	// Location renders the sale time; nil keeps the time's own zone.
	Location *time.Location
}

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultWidth
	}
	return o.Width
}

func (o Options) currency() string {
	if o.Currency == "" {
		return money.DefaultSymbol
	}
	return o.Currency
}

func (o Options) saleTime(t time.Time) time.Time {
	if o.Location != nil {
		return t.In(o.Location)
	}
	return t
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func firstRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// CenterText prefixes text with floor((width-len)/2) spaces. No trailing
// padding is added, and text at least width long is returned as is.
func CenterText(text string, width int) string {
	n := runeLen(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// TwoColumn puts left and right on one line so that right ends at width.
// A left side that would not leave one space before right is cut and ends in "...".
func TwoColumn(left, right string, width int) string {
	rightLen := runeLen(right)
	maxLeft := width - rightLen - 1
	if runeLen(left) > maxLeft {
		left = firstRunes(left, maxLeft-len(ellipsis)) + ellipsis
	}
	padding := width - runeLen(left) - rightLen
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + right
}

type builder struct {
	lines []string
	width int
}

func (b *builder) add(lines ...string)        { b.lines = append(b.lines, lines...) }
func (b *builder) center(text string)         { b.add(CenterText(text, b.width)) }
func (b *builder) columns(left, right string) { b.add(TwoColumn(left, right, b.width)) }
func (b *builder) rule(char string)           { b.add(strings.Repeat(char, b.width)) }

func (b *builder) String() string {
	return strings.Join(b.lines, "\n") + "\n\n"
}

// Customer renders the customer copy with prices, totals and payment.
func Customer(data *entity.ReceiptData, opts Options) string {
	b := &builder{width: opts.width()}
	cur := opts.currency()
	at := opts.saleTime(data.SaleDate)

	for _, line := range []string{opts.Store.Name, opts.Store.Address, opts.Store.Phone} {
		if line != "" {
			b.center(line)
		}
	}
	b.rule("=")
	b.center("CUSTOMER COPY")
	b.rule("=")
	b.add("")

	b.add(
		"Receipt #: "+data.ReceiptNumber,
		"Order #: "+data.OrderNumber,
		"Customer: "+data.CustomerName,
		"Date: "+at.Format("2006-01-02"),
		"Time: "+at.Format("15:04:05"),
	)
	b.rule("-")
	b.columns("Item", "Price")
	b.rule("-")

	for _, item := range data.Items {
		b.columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), money.Format(cur, item.LineTotal))
	}

	b.rule("-")
	b.columns("Subtotal:", money.Format(cur, data.Subtotal))
	b.columns("TOTAL:", money.Format(cur, data.Total))

	switch {
	case data.PaymentMethod == enum.PaymentMethodCash && data.AmountTendered != nil:
		change := int64(0)
		if data.ChangeGiven != nil {
			change = *data.ChangeGiven
		}
		b.columns("Cash:", money.Format(cur, *data.AmountTendered))
		b.columns("Change:", money.Format(cur, change))
	default:
		b.columns("Payment:", data.PaymentMethod.Label())
	}

	b.rule("=")
	b.center("Thank you for your order!")
	b.center("Please come again!")
	b.rule("=")
	return b.String()
}

// Kitchen renders the kitchen copy. It carries no money at all.
func Kitchen(data *entity.ReceiptData, opts Options) string {
	b := &builder{width: opts.width()}
	at := opts.saleTime(data.SaleDate)

	b.center("KITCHEN COPY")
	b.rule("=")
	b.add("")

	b.add(
		"Order #: "+data.OrderNumber,
		"Customer: "+data.CustomerName,
		"Time: "+at.Format("15:04:05"),
	)
	b.rule("-")
	b.add("ITEMS TO PREPARE:")
	b.rule("-")

	for _, item := range data.Items {
		b.add(fmt.Sprintf("%dx %s", item.Quantity, item.Name))
		if item.Category != "" {
			b.add(fmt.Sprintf("    (%s)", item.Category))
		}
	}

	b.rule("-")
	b.add(fmt.Sprintf("Total Items: %d", data.ItemCount()))
	b.rule("=")
	return b.String()
}

// Render produces both copies of one sale.
func Render(data *entity.ReceiptData, opts Options) entity.Receipts {
	return entity.Receipts{
		Customer: Customer(data, opts),
		Kitchen:  Kitchen(data, opts),
	}
}
