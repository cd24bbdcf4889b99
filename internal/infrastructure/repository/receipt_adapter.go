package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// Receipt records reach this package in two namings: the camelCase blob
// written at checkout and the snake_case columns of the sale row. Each
// field lists the persisted name first.
var (
	fieldSaleID         = []string{"sale_id", "saleId"}
	fieldOrderID        = []string{"order_id", "orderId"}
	fieldReceiptNumber  = []string{"receipt_number", "receiptNumber"}
	fieldOrderNumber    = []string{"order_number", "orderNumber"}
	fieldCustomerName   = []string{"customer_name", "customerName"}
	fieldSaleDate       = []string{"sale_date", "saleDate"}
	fieldSubtotal       = []string{"subtotal"}
	fieldTotal          = []string{"total"}
	fieldPaymentMethod  = []string{"payment_method", "paymentMethod"}
	fieldAmountTendered = []string{"amount_tendered", "amountTendered"}
	fieldChangeGiven    = []string{"change_given", "changeGiven"}
	fieldItems          = []string{"items"}

	fieldItemName      = []string{"product_name", "name"}
	fieldItemCategory  = []string{"product_category", "category"}
	fieldItemQuantity  = []string{"quantity"}
	fieldItemUnitPrice = []string{"unit_price", "price"}
	fieldItemLineTotal = []string{"line_total", "total"}
)

// NormalizeReceipt converts either naming of a receipt record into ReceiptData.
// Amounts are currency values ("189.99" or 189.99) and come back as cents.
func NormalizeReceipt(raw map[string]any) (entity.ReceiptData, error) {
	var data entity.ReceiptData
	var err error

	if data.ReceiptNumber, err = requireString(raw, fieldReceiptNumber); err != nil {
		return data, err
	}
	if data.OrderNumber, err = requireString(raw, fieldOrderNumber); err != nil {
		return data, err
	}
	data.CustomerName, _ = stringField(raw, fieldCustomerName)

	if data.SaleID, err = uuidField(raw, fieldSaleID); err != nil {
		return data, err
	}
	if data.OrderID, err = uuidField(raw, fieldOrderID); err != nil {
		return data, err
	}
	if data.SaleDate, err = timeField(raw, fieldSaleDate); err != nil {
		return data, err
	}

	method, _ := stringField(raw, fieldPaymentMethod)
	data.PaymentMethod = enum.PaymentMethod(strings.ToLower(method))
	if !data.PaymentMethod.IsValid() {
		return data, fmt.Errorf("receipt: unknown payment method %q", method)
	}

	if data.Subtotal, _, err = amountField(raw, fieldSubtotal); err != nil {
		return data, err
	}
	if data.Total, _, err = amountField(raw, fieldTotal); err != nil {
		return data, err
	}
	if data.PaymentMethod == enum.PaymentMethodCash {
		if data.AmountTendered, err = optionalAmount(raw, fieldAmountTendered); err != nil {
			return data, err
		}
		if data.ChangeGiven, err = optionalAmount(raw, fieldChangeGiven); err != nil {
			return data, err
		}
	}

	rawItems, _ := lookup(raw, fieldItems)
	list, ok := rawItems.([]any)
	if rawItems != nil && !ok {
		return data, fmt.Errorf("receipt: items must be a list, got %T", rawItems)
	}
	data.Items = make([]entity.ReceiptItem, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return data, fmt.Errorf("receipt: item %d is %T", i, entry)
		}
		item, err := normalizeItem(obj)
		if err != nil {
			return data, fmt.Errorf("receipt: item %d: %w", i, err)
		}
		data.Items = append(data.Items, item)
	}

	return data, nil
}

func normalizeItem(raw map[string]any) (entity.ReceiptItem, error) {
	var item entity.ReceiptItem
	var err error

	if item.Name, err = requireString(raw, fieldItemName); err != nil {
		return item, err
	}
	category, _ := stringField(raw, fieldItemCategory)
	item.Category = enum.ProductCategory(category)

	qty, _, err := decimalField(raw, fieldItemQuantity)
	if err != nil {
		return item, err
	}
	item.Quantity = int(qty.IntPart())
	if item.Quantity <= 0 {
		return item, fmt.Errorf("quantity must be positive")
	}

	if item.UnitPrice, _, err = amountField(raw, fieldItemUnitPrice); err != nil {
		return item, err
	}
	lineTotal, found, err := amountField(raw, fieldItemLineTotal)
	if err != nil {
		return item, err
	}
	if !found {
		lineTotal = item.UnitPrice * int64(item.Quantity)
	}
	item.LineTotal = lineTotal
	return item, nil
}

// EncodeSessionReceipt writes data in the naming used for the checkout blob.
func EncodeSessionReceipt(data entity.ReceiptData) (string, error) {
	items := make([]map[string]any, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, map[string]any{
			"name":     item.Name,
			"category": string(item.Category),
			"quantity": item.Quantity,
			"price":    money.ToDecimal(item.UnitPrice),
			"total":    money.ToDecimal(item.LineTotal),
		})
	}
	blob := map[string]any{
		"saleId":        data.SaleID.String(),
		"orderId":       data.OrderID.String(),
		"receiptNumber": data.ReceiptNumber,
		"orderNumber":   data.OrderNumber,
		"customerName":  data.CustomerName,
		"saleDate":      data.SaleDate.Format(time.RFC3339Nano),
		"subtotal":      money.ToDecimal(data.Subtotal),
		"total":         money.ToDecimal(data.Total),
		"paymentMethod": string(data.PaymentMethod),
		"items":         items,
	}
	if data.AmountTendered != nil {
		blob["amountTendered"] = money.ToDecimal(*data.AmountTendered)
	}
	if data.ChangeGiven != nil {
		blob["changeGiven"] = money.ToDecimal(*data.ChangeGiven)
	}
	out, err := json.Marshal(blob)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeBlob parses a stored blob keeping numbers exact.
func decodeBlob(blob string) (map[string]any, error) {
	raw := map[string]any{}
	if strings.TrimSpace(blob) == "" {
		return raw, nil
	}
	dec := json.NewDecoder(strings.NewReader(blob))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("receipt: decode blob: %w", err)
	}
	return raw, nil
}

// saleRecord renders the sale row in the persisted naming.
func saleRecord(sale *entity.Sale) map[string]any {
	items := make([]any, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, map[string]any{
			"product_name":     item.ProductName,
			"product_category": string(item.ProductCategory),
			"quantity":         item.Quantity,
			"unit_price":       money.Fixed(item.UnitPrice),
			"line_total":       money.Fixed(item.LineTotal),
		})
	}
	record := map[string]any{
		"sale_id":        sale.ID.String(),
		"order_id":       sale.OrderID.String(),
		"receipt_number": sale.ReceiptNumber,
		"customer_name":  sale.CustomerName,
		"sale_date":      sale.SaleDate,
		"subtotal":       money.Fixed(sale.Subtotal),
		"total":          money.Fixed(sale.Total),
		"payment_method": string(sale.PaymentMethod),
	}
	if sale.Order.OrderNumber != "" {
		record["order_number"] = sale.Order.OrderNumber
	}
	if len(items) > 0 {
		record["items"] = items
	}
	if sale.AmountTendered != nil {
		record["amount_tendered"] = money.Fixed(*sale.AmountTendered)
	}
	if sale.ChangeGiven != nil {
		record["change_given"] = money.Fixed(*sale.ChangeGiven)
	}
	return record
}

// mergeRecords overlays the persisted record on the session blob.
func mergeRecords(session, persisted map[string]any) map[string]any {
	merged := make(map[string]any, len(session)+len(persisted))
	for k, v := range session {
		merged[k] = v
	}
	for k, v := range persisted {
		merged[k] = v
	}
	return merged
}

func lookup(raw map[string]any, names []string) (any, bool) {
	for _, name := range names {
		if v, ok := raw[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(raw map[string]any, names []string) (string, bool) {
	v, ok := lookup(raw, names)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	default:
		return fmt.Sprint(s), true
	}
}

func requireString(raw map[string]any, names []string) (string, error) {
	s, ok := stringField(raw, names)
	if !ok || s == "" {
		return "", fmt.Errorf("receipt: missing %s", names[0])
	}
	return s, nil
}

func uuidField(raw map[string]any, names []string) (uuid.UUID, error) {
	s, ok := stringField(raw, names)
	if !ok || s == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("receipt: %s: %w", names[0], err)
	}
	return id, nil
}

func timeField(raw map[string]any, names []string) (time.Time, error) {
	v, ok := lookup(raw, names)
	if !ok {
		return time.Time{}, fmt.Errorf("receipt: missing %s", names[0])
	}
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, fmt.Errorf("receipt: %s: %w", names[0], err)
		}
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("receipt: %s has type %T", names[0], v)
}

func decimalField(raw map[string]any, names []string) (decimal.Decimal, bool, error) {
	v, ok := lookup(raw, names)
	if !ok {
		return decimal.Zero, false, nil
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch n := v.(type) {
	case decimal.Decimal:
		d = n
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case string:
		d, err = decimal.NewFromString(n)
	case float64:
		d = decimal.NewFromFloat(n)
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return decimal.Zero, true, fmt.Errorf("receipt: %s: %w", names[0], err)
	}
	return d, true, nil
}

func amountField(raw map[string]any, names []string) (int64, bool, error) {
	d, found, err := decimalField(raw, names)
	if err != nil || !found {
		return 0, found, err
	}
	return money.FromDecimal(d), true, nil
}

func optionalAmount(raw map[string]any, names []string) (*int64, error) {
	cents, found, err := amountField(raw, names)
	if err != nil || !found {
		return nil, err
	}
	return &cents, nil
}
