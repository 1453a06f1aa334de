package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fixed smoothing constants. Keeping these constant (rather than optimizing
// them per fit) makes repeated forecasts on identical input bit-identical.
const (
	hwAlpha  = 0.35 // level
	hwBeta   = 0.05 // trend
	hwGamma  = 0.15 // seasonal
	hwSeason = 7    // weekly seasonality
)

// FitError reports that the statistical model could not be fitted. Callers
// always recover by falling back to the naive model.
type FitError struct {
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("holt-winters fit failed: %s", e.Reason)
}

// holtWintersForecast fits an additive Holt-Winters model with weekly
// seasonality and returns horizon predictions. It needs at least two full
// seasons of history and finite inputs; anything else is a *FitError.
func holtWintersForecast(values []float64, horizon int) ([]float64, error) {
	n := len(values)
	if n < 2*hwSeason {
		return nil, &FitError{Reason: fmt.Sprintf("need at least %d observations, have %d", 2*hwSeason, n)}
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &FitError{Reason: "series contains non-finite values"}
		}
	}

	// Initial state from the first two seasons.
	firstMean := stat.Mean(values[:hwSeason], nil)
	secondMean := stat.Mean(values[hwSeason:2*hwSeason], nil)

	level := firstMean
	trend := (secondMean - firstMean) / hwSeason

	seasonal := make([]float64, hwSeason)
	for i := 0; i < hwSeason; i++ {
		seasonal[i] = values[i] - firstMean
	}

	for i := hwSeason; i < n; i++ {
		si := i % hwSeason
		prevLevel := level

		level = hwAlpha*(values[i]-seasonal[si]) + (1-hwAlpha)*(level+trend)
		trend = hwBeta*(level-prevLevel) + (1-hwBeta)*trend
		seasonal[si] = hwGamma*(values[i]-level) + (1-hwGamma)*seasonal[si]
	}

	preds := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		p := level + float64(h)*trend + seasonal[(n+h-1)%hwSeason]
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, &FitError{Reason: "forecast diverged to non-finite values"}
		}
		preds[h-1] = p
	}
	return preds, nil
}
