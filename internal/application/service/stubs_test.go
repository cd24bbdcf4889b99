package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/enum"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
)

var errStoreDown = errors.New("connection refused")

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]entity.Product
	listErr  error
	listHits int
}

func newStubProductRepo(products ...entity.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *stubProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) list(onlyAvailable bool) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listHits++
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []entity.Product
	for _, p := range r.products {
		if onlyAvailable && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) ListAvailable(context.Context) ([]entity.Product, error) {
	return r.list(true)
}

func (r *stubProductRepo) ListAll(context.Context) ([]entity.Product, error) {
	return r.list(false)
}

func (r *stubProductRepo) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	p.IsAvailable = available
	r.products[id] = p
	return nil
}

// stubOrderRepo commits orders in memory. When gate is set, CreateOrder
// signals entered and waits for gate before returning. lostAck commits the
// next order but still returns the error, like a connection dropped after COMMIT.
type stubOrderRepo struct {
	mu        sync.Mutex
	count     int64
	receipts  int64
	created   []*repository.NewOrder
	orders    map[uuid.UUID]*entity.Order
	committed map[uuid.UUID]*repository.CreatedOrder
	createErr error
	lostAck   error
	entered   chan struct{}
	gate      chan struct{}
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:    make(map[uuid.UUID]*entity.Order),
		committed: make(map[uuid.UUID]*repository.CreatedOrder),
	}
}

func (r *stubOrderRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

func (r *stubOrderRepo) CreateOrder(_ context.Context, in *repository.NewOrder) (*repository.CreatedOrder, error) {
	if r.gate != nil {
		r.entered <- struct{}{}
		<-r.gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, in)
	if r.createErr != nil {
		return nil, r.createErr
	}
	if existing, ok := r.committed[in.OrderID]; ok {
		return existing, nil
	}

	r.count++
	r.receipts++
	orderID, saleID := in.OrderID, uuid.New()
	if orderID == uuid.Nil {
		orderID = uuid.New()
	}
	orderNumber := entity.FormatOrderNumber(r.count)
	receiptNumber := fmt.Sprintf("%s-%s-%04d", in.ReceiptPrefix, in.PlacedAt.Format("20060102"), r.receipts)

	order := &entity.Order{
		ID:           orderID,
		OrderNumber:  orderNumber,
		CustomerName: in.CustomerName,
		Subtotal:     in.Subtotal,
		Total:        in.Total,
		Status:       enum.OrderStatusPending,
		CreatedAt:    in.PlacedAt,
		UpdatedAt:    in.PlacedAt,
	}
	data := entity.ReceiptData{
		SaleID:         saleID,
		OrderID:        orderID,
		ReceiptNumber:  receiptNumber,
		OrderNumber:    orderNumber,
		CustomerName:   in.CustomerName,
		SaleDate:       in.PlacedAt,
		Subtotal:       in.Subtotal,
		Total:          in.Total,
		PaymentMethod:  in.PaymentMethod,
		AmountTendered: in.AmountTendered,
		ChangeGiven:    in.ChangeGiven,
	}
	for _, l := range in.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:       l.ProductID,
			ProductName:     l.Name,
			ProductCategory: l.Category,
			ProductPrice:    l.UnitPrice,
			Quantity:        l.Quantity,
			LineTotal:       l.UnitPrice * int64(l.Quantity),
		})
		data.Items = append(data.Items, entity.ReceiptItem{
			Name:      l.Name,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.UnitPrice * int64(l.Quantity),
		})
	}
	r.orders[orderID] = order

	created := &repository.CreatedOrder{
		OrderID:       orderID,
		SaleID:        saleID,
		OrderNumber:   orderNumber,
		ReceiptNumber: receiptNumber,
		Receipt:       data,
	}
	r.committed[orderID] = created
	if r.lostAck != nil {
		err := r.lostAck
		r.lostAck = nil
		return nil, err
	}
	return created, nil
}

func (r *stubOrderRepo) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *stubOrderRepo) CurrentOrderCount(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count, nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *stubOrderRepo) ListActive(_ context.Context, completedSince time.Time) ([]entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		if o.Status != enum.OrderStatusCompleted || !o.UpdatedAt.Before(completedSince) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to enum.OrderStatus, notes *string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return nil, repository.ErrStatusChanged
	}
	o.Status = to
	o.UpdatedAt = o.UpdatedAt.Add(time.Minute)
	if notes != nil {
		o.KitchenNotes = notes
	}
	cp := *o
	return &cp, nil
}

type stubSaleRepo struct {
	mu       sync.Mutex
	sales    []entity.Sale
	receipts map[uuid.UUID]*entity.ReceiptData
	printed  []uuid.UUID
	markErr  error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{receipts: make(map[uuid.UUID]*entity.ReceiptData)}
}

func (r *stubSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			return &r.sales[i], nil
		}
	}
	return nil, nil
}

func (r *stubSaleRepo) ListBetween(_ context.Context, start, end time.Time) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		if !start.IsZero() && s.SaleDate.Before(start) {
			continue
		}
		if !end.IsZero() && s.SaleDate.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSaleRepo) List(_ context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return r.sales, int64(len(r.sales)), nil
}

func (r *stubSaleRepo) GetReceipt(_ context.Context, id uuid.UUID) (*entity.ReceiptData, error) {
	return r.receipts[id], nil
}

func (r *stubSaleRepo) MarkReceiptPrinted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.printed = append(r.printed, id)
	return nil
}

func (r *stubSaleRepo) printedIDs() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.printed...)
}

type stubSettingsRepo struct {
	settings entity.PrinterSettings
	saved    int
}

func (r *stubSettingsRepo) Get(context.Context) (entity.PrinterSettings, error) {
	return r.settings, nil
}

func (r *stubSettingsRepo) Save(_ context.Context, s entity.PrinterSettings) error {
	r.settings = s
	r.saved++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e entity.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingHook struct {
	name    string
	err     error
	panics  bool
	results []*CheckoutResult
}

func (h *recordingHook) Name() string { return h.name }

func (h *recordingHook) AfterCommit(_ context.Context, r *CheckoutResult) error {
	h.results = append(h.results, r)
	if h.panics {
		panic("hook exploded")
	}
	return h.err
}

// manualScheduler keeps scheduled functions until run is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
	s.delays = append(s.delays, d)
}

func (s *manualScheduler) run() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

func product(name string, cents int64, category enum.ProductCategory) entity.Product {
	return entity.Product{ID: uuid.New(), Name: name, Price: cents, Category: category, IsAvailable: true}
}

func cents(v int64) *int64 { return &v }
