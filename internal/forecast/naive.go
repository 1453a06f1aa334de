package forecast

import "gonum.org/v1/gonum/stat"

// naiveWindow is how many trailing observations feed the naive prediction.
const naiveWindow = 7

// naiveForecast predicts a flat demand equal to the mean of the trailing
// (at most) seven observed days. An empty series predicts zero demand.
func naiveForecast(values []float64, horizon int) []float64 {
	level := 0.0
	if n := len(values); n > 0 {
		w := naiveWindow
		if n < w {
			w = n
		}
		level = stat.Mean(values[n-w:], nil)
	}

	preds := make([]float64, horizon)
	for i := range preds {
		preds[i] = level
	}
	return preds
}
