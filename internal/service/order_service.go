package service

import (
	"context"
	"time"

	"stockwatch/internal/bus"
	"stockwatch/internal/model"
	"stockwatch/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService records sales. A sale decrements stock through StockService,
// so the critical-stock edge detection runs on every order.
type OrderService interface {
	CreateOrder(ctx context.Context, productID uuid.UUID, quantity int) (*model.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
	stock  StockService
	events *bus.Bus
}

func NewOrderService(orders repository.OrderRepository, stock StockService, events *bus.Bus) OrderService {
	return &orderService{orders: orders, stock: stock, events: events}
}

func (s *orderService) CreateOrder(ctx context.Context, productID uuid.UUID, quantity int) (*model.Order, error) {
	product, err := s.stock.Decrement(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ProductID: product.ID,
		Quantity:  quantity,
		Total:     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, bus.KindOrderCreated, bus.OrderEvent{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		Timestamp: time.Now().UTC(),
	})

	return order, nil
}
