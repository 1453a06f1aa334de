// Package forecast predicts daily product demand from sales history and
// derives reorder recommendations. Two models: a naive trailing-mean used for
// short histories, and an additive Holt-Winters model with weekly seasonality
// for everything else. A failed statistical fit silently falls back to naive.
package forecast

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/floats"
)

// Model identifiers reported in results.
const (
	ModelNaive         = "naive"
	ModelHoltWinters   = "holt_winters_add[7]"
	ModelFallbackNaive = "fallback_naive"
)

const (
	// minStatObservations is the history length below which the statistical
	// model is not even attempted.
	minStatObservations = 28

	// safetyDays pads the lead time when computing the reorder target.
	safetyDays = 7

	DefaultHorizonDays  = 30
	DefaultLeadTimeDays = 7
)

// Input carries everything a forecast call needs. Series should come from
// BuildDailySeries. Today anchors forecast dates when the series is empty;
// a zero Today means time.Now.
type Input struct {
	ProductID    uuid.UUID
	Series       Series
	CurrentStock int
	HorizonDays  int
	LeadTimeDays int
	Today        time.Time
}

// ResultPoint is one predicted day.
type ResultPoint struct {
	Date   time.Time
	Demand float64
}

// Result is an immutable forecast outcome.
type Result struct {
	ProductID           uuid.UUID
	Model               string
	HorizonDays         int
	LeadTimeDays        int
	CurrentStock        int
	Points              []ResultPoint
	StockoutDate        *time.Time
	TargetCoverDays     int
	RecommendedOrderQty int
}

// Engine produces forecasts. The Holt-Winters fit is CPU-bound, so concurrent
// fits are bounded by a weighted semaphore sized to GOMAXPROCS — a sweep over
// many products cannot monopolize the scheduler.
type Engine struct {
	fitSem *semaphore.Weighted
}

func NewEngine() *Engine {
	return &Engine{fitSem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))}
}

// Forecast predicts demand over the horizon and derives the stockout date and
// recommended order quantity. The only error it returns is context
// cancellation; model failures are absorbed by the naive fallback.
func (e *Engine) Forecast(ctx context.Context, in Input) (*Result, error) {
	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	leadTime := in.LeadTimeDays
	if leadTime <= 0 {
		leadTime = DefaultLeadTimeDays
	}

	values := in.Series.Values

	var preds []float64
	var modelID string

	if len(values) < minStatObservations {
		preds = naiveForecast(values, horizon)
		modelID = ModelNaive
	} else {
		if err := e.fitSem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		hw, fitErr := holtWintersForecast(values, horizon)
		e.fitSem.Release(1)

		if fitErr != nil {
			preds = naiveForecast(values, horizon)
			modelID = ModelFallbackNaive
		} else {
			preds = hw
			modelID = ModelHoltWinters
		}
	}

	// Demand is never negative.
	for i, p := range preds {
		if p < 0 {
			preds[i] = 0
		}
	}

	start := e.forecastStart(in)
	points := make([]ResultPoint, horizon)
	for i := range preds {
		points[i] = ResultPoint{Date: start.AddDate(0, 0, i), Demand: preds[i]}
	}

	stock := float64(in.CurrentStock)

	// Stockout: first day the cumulative demand exceeds current stock.
	cum := make([]float64, len(preds))
	floats.CumSum(cum, preds)
	var stockout *time.Time
	for i, c := range cum {
		if c > stock {
			d := points[i].Date
			stockout = &d
			break
		}
	}

	// Reorder: cover lead time plus a safety window, net of current stock.
	targetDays := leadTime + safetyDays
	if targetDays < 1 {
		targetDays = 1
	}
	head := targetDays
	if head > len(preds) {
		head = len(preds)
	}
	demandTarget := floats.Sum(preds[:head])
	recommended := demandTarget - stock
	if recommended < 0 {
		recommended = 0
	}

	return &Result{
		ProductID:           in.ProductID,
		Model:               modelID,
		HorizonDays:         horizon,
		LeadTimeDays:        leadTime,
		CurrentStock:        in.CurrentStock,
		Points:              points,
		StockoutDate:        stockout,
		TargetCoverDays:     targetDays,
		RecommendedOrderQty: int(math.Round(recommended)),
	}, nil
}

// forecastStart is the day after the last observation, or tomorrow when
// there is no history at all.
func (e *Engine) forecastStart(in Input) time.Time {
	if in.Series.Len() > 0 {
		return in.Series.End().AddDate(0, 0, 1)
	}
	today := in.Today
	if today.IsZero() {
		today = time.Now()
	}
	return day(today).AddDate(0, 0, 1)
}
