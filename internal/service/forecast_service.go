package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stockwatch/internal/forecast"
	"stockwatch/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ForecastService joins sales history, current stock, and the forecast
// engine, with a redis cache in front so repeated calls within the TTL do
// not refit the model.
type ForecastService interface {
	Forecast(ctx context.Context, productID uuid.UUID, horizonDays, leadTimeDays int) (*forecast.Result, error)
}

type forecastService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	engine   *forecast.Engine
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewForecastService builds the service. rdb may be nil, which disables
// caching entirely (used in tests).
func NewForecastService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	engine *forecast.Engine,
	rdb *redis.Client,
	cacheTTL time.Duration,
) ForecastService {
	return &forecastService{
		products: products,
		orders:   orders,
		engine:   engine,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

func (s *forecastService) Forecast(ctx context.Context, productID uuid.UUID, horizonDays, leadTimeDays int) (*forecast.Result, error) {
	key := fmt.Sprintf("forecast:%s:%d:%d", productID, horizonDays, leadTimeDays)

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	sales, err := s.orders.DailySales(ctx, productID)
	if err != nil {
		return nil, err
	}

	points := make([]forecast.Point, len(sales))
	for i, row := range sales {
		points[i] = forecast.Point{Date: row.Day, Qty: float64(row.Qty)}
	}

	result, err := s.engine.Forecast(ctx, forecast.Input{
		ProductID:    productID,
		Series:       forecast.BuildDailySeries(points),
		CurrentStock: product.Stock,
		HorizonDays:  horizonDays,
		LeadTimeDays: leadTimeDays,
	})
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, result)
	return result, nil
}

func (s *forecastService) fromCache(ctx context.Context, key string) *forecast.Result {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil // miss or redis down — recompute either way
	}
	var result forecast.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return &result
}

func (s *forecastService) toCache(ctx context.Context, key string, result *forecast.Result) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("forecast: cache write failed")
	}
}
