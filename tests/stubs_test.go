package tests

import (
	"context"
	"sync"

	"stockwatch/internal/model"
	"stockwatch/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Return a copy: callers compare before/after snapshots.
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) ListActive(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || !p.Active || p.Stock < qty {
		return 0, nil
	}
	p.Stock -= qty
	return 1, nil
}

func (r *stubProductRepo) CountAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) CountCritical(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.Stock <= p.CriticalStock {
			n++
		}
	}
	return n, nil
}

// ── In-memory OrderRepository stub ──────────────────────────────────────────

type stubOrderRepo struct {
	mu     sync.Mutex
	orders []model.Order
	sales  map[uuid.UUID][]repository.DailySale
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{sales: make(map[uuid.UUID][]repository.DailySale)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders = append(r.orders, *o)
	return nil
}

func (r *stubOrderRepo) DailySales(_ context.Context, productID uuid.UUID) ([]repository.DailySale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sales[productID], nil
}

func (r *stubOrderRepo) TotalQuantity(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.orders {
		n += int64(o.Quantity)
	}
	return n, nil
}

func (r *stubOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, o := range r.orders {
		total = total.Add(o.Total)
	}
	return total, nil
}
