package service

import (
	"context"

	"stockwatch/internal/dto"
	"stockwatch/internal/repository"
)

// MetricsService aggregates the inventory overview numbers.
type MetricsService interface {
	Overview(ctx context.Context) (*dto.MetricsResponse, error)
}

type metricsService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
}

func NewMetricsService(products repository.ProductRepository, orders repository.OrderRepository) MetricsService {
	return &metricsService{products: products, orders: orders}
}

func (s *metricsService) Overview(ctx context.Context) (*dto.MetricsResponse, error) {
	critical, err := s.products.CountCritical(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	orderQty, err := s.orders.TotalQuantity(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.MetricsResponse{
		CriticalStockCount: critical,
		TotalProductsCount: total,
		TotalOrders:        orderQty,
		TotalOrdersRevenue: revenue.StringFixed(2),
	}, nil
}
