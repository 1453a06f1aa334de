package repository

import (
	"context"

	"stockwatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)

	// DecrementStock subtracts qty guarded by `stock >= qty` so the row can
	// never go negative, even under concurrent decrements. Returns the number
	// of rows updated (0 = nothing matched the guard).
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error)

	CountAll(ctx context.Context) (int64, error)
	CountCritical(ctx context.Context) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND active = true AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *productRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) CountCritical(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("stock <= critical_stock").Count(&n).Error
	return n, err
}
