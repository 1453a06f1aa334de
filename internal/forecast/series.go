package forecast

import "time"

// Point is one observed (date, quantity) pair of historical demand.
type Point struct {
	Date time.Time
	Qty  float64
}

// Series is a gap-filled, contiguous daily demand series starting at Start.
// Values[i] is the demand on Start + i days. An empty series has a zero
// Start and no values.
type Series struct {
	Start  time.Time
	Values []float64
}

// Len returns the number of observed days.
func (s Series) Len() int { return len(s.Values) }

// End returns the last observed day.
func (s Series) End() time.Time {
	if len(s.Values) == 0 {
		return time.Time{}
	}
	return s.Start.AddDate(0, 0, len(s.Values)-1)
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildDailySeries aggregates raw observations into a continuous daily
// series. Multiple points on the same day are summed; days with no
// observations become explicit zeros. Points must be in chronological order.
func BuildDailySeries(points []Point) Series {
	if len(points) == 0 {
		return Series{}
	}

	start := day(points[0].Date)
	end := day(points[len(points)-1].Date)
	n := int(end.Sub(start).Hours()/24) + 1

	values := make([]float64, n)
	for _, p := range points {
		idx := int(day(p.Date).Sub(start).Hours() / 24)
		if idx >= 0 && idx < n {
			values[idx] += p.Qty
		}
	}
	return Series{Start: start, Values: values}
}
