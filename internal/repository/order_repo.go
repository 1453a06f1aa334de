package repository

import (
	"context"
	"time"

	"stockwatch/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySale is one day of aggregated demand for a product.
type DailySale struct {
	Day time.Time
	Qty int
}

// OrderRepository defines the data access contract for sales history.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error

	// DailySales returns per-day summed quantities for a product, oldest
	// first. Days with no sales are absent; the forecast engine gap-fills.
	DailySales(ctx context.Context, productID uuid.UUID) ([]DailySale, error)

	TotalQuantity(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) DailySales(ctx context.Context, productID uuid.UUID) ([]DailySale, error) {
	var rows []DailySale
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("date_trunc('day', created_at) AS day, SUM(quantity) AS qty").
		Where("product_id = ?", productID).
		Group("day").Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *orderRepo) TotalQuantity(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(quantity), 0)").Scan(&n).Error
	return n, err
}

func (r *orderRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0)").Scan(&total).Error
	return total, err
}
