package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayAt(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDailySeriesGapFills(t *testing.T) {
	points := []Point{
		{Date: dayAt(2025, 3, 1), Qty: 2},
		{Date: dayAt(2025, 3, 1), Qty: 1}, // same day, summed
		{Date: dayAt(2025, 3, 4), Qty: 5},
	}

	s := BuildDailySeries(points)

	require.Equal(t, 4, s.Len())
	assert.Equal(t, dayAt(2025, 3, 1), s.Start)
	assert.Equal(t, []float64{3, 0, 0, 5}, s.Values)
	assert.Equal(t, dayAt(2025, 3, 4), s.End())
}

func TestForecastNaiveShortHistory(t *testing.T) {
	// 10 observations — below the 28 needed for the statistical model.
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	series := Series{Start: dayAt(2025, 3, 1), Values: values}

	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{
		ProductID:    uuid.New(),
		Series:       series,
		CurrentStock: 12,
		HorizonDays:  5,
		LeadTimeDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, ModelNaive, res.Model)

	// Every prediction equals the mean of the trailing 7 observations.
	wantLevel := (3.0 + 4 + 5 + 6 + 7 + 8 + 9) / 7
	require.Len(t, res.Points, 5)
	for _, p := range res.Points {
		assert.InDelta(t, wantLevel, p.Demand, 1e-9)
	}

	// Forecast dates start the day after the last observation.
	assert.Equal(t, dayAt(2025, 3, 11), res.Points[0].Date)

	// Cumulative demand: 6, 12, 18 — first day above stock=12 is day 3.
	require.NotNil(t, res.StockoutDate)
	assert.Equal(t, dayAt(2025, 3, 13), *res.StockoutDate)
}

func TestForecastNaiveTrailingWindowShorterThanSeven(t *testing.T) {
	series := Series{Start: dayAt(2025, 3, 1), Values: []float64{3, 6, 9}}

	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{Series: series, HorizonDays: 4})
	require.NoError(t, err)

	assert.Equal(t, ModelNaive, res.Model)
	for _, p := range res.Points {
		assert.InDelta(t, 6.0, p.Demand, 1e-9)
	}
}

func TestForecastEmptySeries(t *testing.T) {
	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{
		CurrentStock: 10,
		HorizonDays:  7,
		Today:        dayAt(2025, 6, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, ModelNaive, res.Model)
	require.Len(t, res.Points, 7)
	for _, p := range res.Points {
		assert.Zero(t, p.Demand)
	}
	assert.Nil(t, res.StockoutDate)
	assert.Zero(t, res.RecommendedOrderQty)
	assert.Equal(t, dayAt(2025, 6, 2), res.Points[0].Date)
}

func TestForecastRecommendedOrderQty(t *testing.T) {
	// Flat demand of 6/day, lead time 7 → target 14 days → 84 units needed.
	values := []float64{6, 6, 6, 6, 6, 6, 6}
	series := Series{Start: dayAt(2025, 3, 1), Values: values}

	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{
		Series:       series,
		CurrentStock: 12,
		HorizonDays:  30,
		LeadTimeDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, 14, res.TargetCoverDays)
	assert.Equal(t, 72, res.RecommendedOrderQty) // 84 - 12
}

func TestForecastHoltWintersDeterministic(t *testing.T) {
	// 8 full weeks with a clear weekly pattern.
	values := make([]float64, 56)
	for i := range values {
		values[i] = 10 + float64(i%7)*2
	}
	series := Series{Start: dayAt(2025, 1, 6), Values: values}

	engine := NewEngine()
	in := Input{ProductID: uuid.New(), Series: series, CurrentStock: 500, HorizonDays: 14, LeadTimeDays: 7}

	first, err := engine.Forecast(context.Background(), in)
	require.NoError(t, err)
	second, err := engine.Forecast(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, ModelHoltWinters, first.Model)
	require.Len(t, first.Points, 14)
	for i := range first.Points {
		// Repeated fits on identical input are bit-identical.
		assert.Equal(t, first.Points[i].Demand, second.Points[i].Demand)
		assert.GreaterOrEqual(t, first.Points[i].Demand, 0.0)
	}
	assert.GreaterOrEqual(t, first.RecommendedOrderQty, 0)
}

func TestForecastFallbackOnFitError(t *testing.T) {
	// 28 observations but a non-finite value poisons the fit.
	values := make([]float64, 28)
	for i := range values {
		values[i] = 5
	}
	values[0] = math.NaN()
	series := Series{Start: dayAt(2025, 1, 6), Values: values}

	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{Series: series, HorizonDays: 7})
	require.NoError(t, err)

	assert.Equal(t, ModelFallbackNaive, res.Model)
	for _, p := range res.Points {
		assert.InDelta(t, 5.0, p.Demand, 1e-9)
	}
}

func TestForecastNeverNegative(t *testing.T) {
	// Steeply declining demand drives the raw Holt-Winters forecast negative.
	values := make([]float64, 56)
	for i := range values {
		v := 100 - float64(i)*2
		if v < 0 {
			v = 0
		}
		values[i] = v
	}
	series := Series{Start: dayAt(2025, 1, 6), Values: values}

	engine := NewEngine()
	res, err := engine.Forecast(context.Background(), Input{Series: series, HorizonDays: 30, CurrentStock: 50})
	require.NoError(t, err)

	for _, p := range res.Points {
		assert.GreaterOrEqual(t, p.Demand, 0.0)
	}
	assert.GreaterOrEqual(t, res.RecommendedOrderQty, 0)
}

func TestHoltWintersRejectsShortSeries(t *testing.T) {
	_, err := holtWintersForecast(make([]float64, 13), 7)
	var fitErr *FitError
	require.ErrorAs(t, err, &fitErr)
}
