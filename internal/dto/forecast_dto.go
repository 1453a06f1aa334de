package dto

// ForecastPoint is one predicted day of demand.
type ForecastPoint struct {
	Date   string  `json:"date"`
	Demand float64 `json:"demand"`
}

// ForecastResponse mirrors the forecast result wire shape.
type ForecastResponse struct {
	ProductID           string          `json:"product_id"`
	Model               string          `json:"model"`
	HorizonDays         int             `json:"horizon_days"`
	LeadTimeDays        int             `json:"lead_time_days"`
	CurrentStock        int             `json:"current_stock"`
	Forecast            []ForecastPoint `json:"forecast"`
	StockoutDate        *string         `json:"stockout_date"`
	TargetCoverDays     int             `json:"target_cover_days"`
	RecommendedOrderQty int             `json:"recommended_order_qty"`
}
