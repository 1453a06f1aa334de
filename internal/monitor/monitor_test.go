package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockwatch/internal/forecast"
	"stockwatch/internal/model"
	"stockwatch/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts struct {
	products []model.Product
	err      error
}

func (s *stubProducts) ListActive(context.Context) ([]model.Product, error) {
	return s.products, s.err
}

type stubForecaster struct {
	results map[uuid.UUID]*forecast.Result
	errs    map[uuid.UUID]error
	panics  map[uuid.UUID]bool
}

func (s *stubForecaster) Forecast(_ context.Context, id uuid.UUID, _, _ int) (*forecast.Result, error) {
	if s.panics[id] {
		panic("forecast exploded")
	}
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	if res, ok := s.results[id]; ok {
		return res, nil
	}
	return &forecast.Result{ProductID: id}, nil
}

type stubPusher struct {
	messages []map[string]any
}

func (p *stubPusher) Len() int { return 1 }

func (p *stubPusher) Broadcast(msg any) ws.BroadcastResult {
	p.messages = append(p.messages, msg.(map[string]any))
	return ws.BroadcastResult{Delivered: 1}
}

func (p *stubPusher) byType(kind string) []map[string]any {
	var out []map[string]any
	for _, m := range p.messages {
		if m["type"] == kind {
			out = append(out, m)
		}
	}
	return out
}

func TestSweepBroadcastsReminderForCriticalProducts(t *testing.T) {
	critical := model.Product{ID: uuid.New(), Name: "Yerba", Stock: 5, CriticalStock: 10, Active: true}
	healthy := model.Product{ID: uuid.New(), Name: "Azucar", Stock: 50, CriticalStock: 10, Active: true}

	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{critical, healthy}}, &stubForecaster{}, pusher, time.Minute, 30, 7)

	m.Sweep(context.Background())

	reminders := pusher.byType("critical_stock")
	require.Len(t, reminders, 1)
	assert.Equal(t, "Yerba", reminders[0]["name"])
	assert.Equal(t, 5, reminders[0]["stock"])
	assert.Equal(t, 10, reminders[0]["critical_stock"])
}

func TestSweepReminderRefiresEveryIteration(t *testing.T) {
	// Sustained low stock: no edge event, but the sweep reminds each time.
	critical := model.Product{ID: uuid.New(), Name: "Yerba", Stock: 5, CriticalStock: 10, Active: true}
	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{critical}}, &stubForecaster{}, pusher, time.Minute, 30, 7)

	m.Sweep(context.Background())
	m.Sweep(context.Background())

	assert.Len(t, pusher.byType("critical_stock"), 2)
}

func TestSweepPushesForecastWarningWhenStockoutImminent(t *testing.T) {
	id := uuid.New()
	product := model.Product{ID: id, Name: "Cafe", Stock: 100, CriticalStock: 5, Active: true}

	soon := time.Now().Add(48 * time.Hour)
	forecaster := &stubForecaster{results: map[uuid.UUID]*forecast.Result{
		id: {ProductID: id, StockoutDate: &soon, RecommendedOrderQty: 42},
	}}

	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{product}}, forecaster, pusher, time.Minute, 30, 7)

	m.Sweep(context.Background())

	warnings := pusher.byType("critical_stock_forecast")
	require.Len(t, warnings, 1)
	assert.Equal(t, "Cafe", warnings[0]["product_name"])
	assert.Equal(t, 42, warnings[0]["recommended_order_qty"])
	assert.Equal(t, soon.Format("2006-01-02"), warnings[0]["stockout_date"])
}

func TestSweepSkipsDistantStockout(t *testing.T) {
	id := uuid.New()
	product := model.Product{ID: id, Name: "Cafe", Stock: 100, CriticalStock: 5, Active: true}

	far := time.Now().Add(30 * 24 * time.Hour)
	forecaster := &stubForecaster{results: map[uuid.UUID]*forecast.Result{
		id: {ProductID: id, StockoutDate: &far},
	}}

	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{product}}, forecaster, pusher, time.Minute, 30, 7)

	m.Sweep(context.Background())

	assert.Empty(t, pusher.byType("critical_stock_forecast"))
}

func TestSweepOneProductFailureDoesNotStopOthers(t *testing.T) {
	broken := model.Product{ID: uuid.New(), Name: "Broken", Stock: 100, CriticalStock: 5, Active: true}
	fine := model.Product{ID: uuid.New(), Name: "Fine", Stock: 2, CriticalStock: 5, Active: true}

	forecaster := &stubForecaster{errs: map[uuid.UUID]error{broken.ID: errors.New("history unavailable")}}
	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{broken, fine}}, forecaster, pusher, time.Minute, 30, 7)

	assert.NotPanics(t, func() { m.Sweep(context.Background()) })

	reminders := pusher.byType("critical_stock")
	require.Len(t, reminders, 1)
	assert.Equal(t, "Fine", reminders[0]["name"])
}

func TestSweepContainsPanicsPerProduct(t *testing.T) {
	exploding := model.Product{ID: uuid.New(), Name: "Boom", Stock: 100, CriticalStock: 5, Active: true}
	fine := model.Product{ID: uuid.New(), Name: "Fine", Stock: 2, CriticalStock: 5, Active: true}

	forecaster := &stubForecaster{panics: map[uuid.UUID]bool{exploding.ID: true}}
	pusher := &stubPusher{}
	m := New(&stubProducts{products: []model.Product{exploding, fine}}, forecaster, pusher, time.Minute, 30, 7)

	assert.NotPanics(t, func() { m.Sweep(context.Background()) })
	assert.Len(t, pusher.byType("critical_stock"), 1)
}

func TestSweepListFailureIsContained(t *testing.T) {
	m := New(&stubProducts{err: errors.New("db down")}, &stubForecaster{}, &stubPusher{}, time.Minute, 30, 7)
	assert.NotPanics(t, func() { m.Sweep(context.Background()) })
}

func TestStartStopsOnContextCancel(t *testing.T) {
	pusher := &stubPusher{}
	m := New(&stubProducts{}, &stubForecaster{}, pusher, 5*time.Millisecond, 30, 7)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	time.Sleep(20 * time.Millisecond)
	cancel()
	// Nothing to assert beyond a clean exit — the loop must not leak or
	// panic after cancellation.
	time.Sleep(10 * time.Millisecond)
}
