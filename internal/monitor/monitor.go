// Package monitor runs the periodic critical-stock sweep: every interval it
// re-evaluates all active products and pushes reminder and forecast warnings
// straight through the connection registry, independent of the event bus.
package monitor

import (
	"context"
	"time"

	"stockwatch/internal/forecast"
	"stockwatch/internal/model"
	"stockwatch/internal/ws"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultInterval matches the original five-minute sweep cadence.
const DefaultInterval = 300 * time.Second

// stockoutWarnDays: a forecast stockout this close triggers a push warning.
const stockoutWarnDays = 7

// ProductSource lists the products to evaluate.
type ProductSource interface {
	ListActive(ctx context.Context) ([]model.Product, error)
}

// Forecaster produces a demand forecast for one product.
type Forecaster interface {
	Forecast(ctx context.Context, productID uuid.UUID, horizonDays, leadTimeDays int) (*forecast.Result, error)
}

// Pusher delivers realtime messages to all live connections.
type Pusher interface {
	Len() int
	Broadcast(msg any) ws.BroadcastResult
}

// Monitor is the periodic sweep task.
type Monitor struct {
	products     ProductSource
	forecasts    Forecaster
	registry     Pusher
	interval     time.Duration
	horizonDays  int
	leadTimeDays int
}

func New(products ProductSource, forecasts Forecaster, registry Pusher, interval time.Duration, horizonDays, leadTimeDays int) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if horizonDays <= 0 {
		horizonDays = forecast.DefaultHorizonDays
	}
	if leadTimeDays <= 0 {
		leadTimeDays = forecast.DefaultLeadTimeDays
	}
	return &Monitor{
		products:     products,
		forecasts:    forecasts,
		registry:     registry,
		interval:     interval,
		horizonDays:  horizonDays,
		leadTimeDays: leadTimeDays,
	}
}

// Start launches the sweep loop in a background goroutine. It respects the
// context for graceful shutdown: cancellation interrupts the inter-iteration
// sleep and the loop exits cleanly.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", m.interval).Msg("stock monitor: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock monitor: shutting down")
				return
			case <-ticker.C:
				m.Sweep(ctx)
			}
		}
	}()
}

// Sweep evaluates every active product once. A failure on one product — or
// an unexpected panic anywhere in the iteration — is logged and never stops
// the loop.
func (m *Monitor) Sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("stock monitor: sweep iteration panicked")
		}
	}()

	products, err := m.products.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock monitor: failed to list products")
		return
	}

	for i := range products {
		m.checkProduct(ctx, &products[i])
	}
}

func (m *Monitor) checkProduct(ctx context.Context, p *model.Product) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("product", p.Name).
				Msg("stock monitor: product check panicked — skipping")
		}
	}()

	// Reminder push: re-fires every sweep while stock sits at or below the
	// threshold. The edge-triggered bus event is a separate mechanism.
	if p.Stock <= p.CriticalStock {
		m.registry.Broadcast(map[string]any{
			"type":           "critical_stock",
			"product_id":     p.ID,
			"name":           p.Name,
			"stock":          p.Stock,
			"critical_stock": p.CriticalStock,
		})
	}

	result, err := m.forecasts.Forecast(ctx, p.ID, m.horizonDays, m.leadTimeDays)
	if err != nil {
		log.Error().Err(err).Str("product", p.Name).Msg("stock monitor: forecast failed — skipping")
		return
	}

	if stockoutImminent(result.StockoutDate, time.Now()) {
		m.registry.Broadcast(map[string]any{
			"type":                  "critical_stock_forecast",
			"product_id":            p.ID,
			"product_name":          p.Name,
			"stockout_date":         result.StockoutDate.Format("2006-01-02"),
			"recommended_order_qty": result.RecommendedOrderQty,
		})
	}
}

// stockoutImminent reports whether the predicted stockout falls within the
// warning window. A nil stockout never warns.
func stockoutImminent(stockout *time.Time, now time.Time) bool {
	if stockout == nil {
		return false
	}
	days := int(stockout.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
	return days <= stockoutWarnDays
}
