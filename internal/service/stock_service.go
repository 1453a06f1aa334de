package service

import (
	"context"
	"errors"
	"time"

	"stockwatch/internal/bus"
	"stockwatch/internal/model"
	"stockwatch/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockService owns the one mutation this core performs on products: the
// stock decrement. It is also where the edge transition into critical stock
// is detected and published.
type StockService interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)

	// Decrement removes qty units. It fails with ErrInsufficientStock when
	// the product holds fewer than qty units, leaving stock unchanged.
	Decrement(ctx context.Context, id uuid.UUID, qty int) (*model.Product, error)
}

type stockService struct {
	products repository.ProductRepository
	events   *bus.Bus
}

func NewStockService(products repository.ProductRepository, events *bus.Bus) StockService {
	return &stockService{products: products, events: events}
}

func (s *stockService) CreateProduct(ctx context.Context, p *model.Product) error {
	return s.products.Create(ctx, p)
}

func (s *stockService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *stockService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.ListActive(ctx)
}

func (s *stockService) Decrement(ctx context.Context, id uuid.UUID, qty int) (*model.Product, error) {
	before, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Stock < qty {
		return nil, ErrInsufficientStock
	}

	// The repository guards the update with `stock >= qty`, so a concurrent
	// decrement that raced us past the check above still cannot push the row
	// negative.
	rows, err := s.products.DecrementStock(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrInsufficientStock
	}

	after, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Edge-triggered: fires only on the downward crossing, never on sustained
	// low stock or upward movement.
	if before.Stock > after.CriticalStock && after.Stock <= after.CriticalStock {
		event := bus.StockEvent{
			ProductID:     after.ID,
			ProductName:   after.Name,
			Stock:         after.Stock,
			CriticalStock: after.CriticalStock,
			Timestamp:     time.Now().UTC(),
		}
		res := s.events.Publish(ctx, bus.KindCriticalStock, event)
		log.Info().
			Str("product", after.Name).
			Int("stock", after.Stock).
			Int("critical_stock", after.CriticalStock).
			Int("handlers", res.Handlers).
			Int("failed", res.Failed).
			Msg("critical stock threshold crossed")
	}

	return after, nil
}
