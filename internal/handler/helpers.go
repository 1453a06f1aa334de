package handler

import (
	"net/http"

	"stockwatch/internal/apierror"
	"stockwatch/internal/dto"
	"stockwatch/internal/forecast"
	"stockwatch/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseIDParam pulls the :id path param as a UUID, writing a 400 on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return uuid.Nil, false
	}
	return id, true
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Stock:         p.Stock,
		CriticalStock: p.CriticalStock,
		Price:         p.Price.StringFixed(2),
	}
}

func toForecastResponse(r *forecast.Result) dto.ForecastResponse {
	points := make([]dto.ForecastPoint, len(r.Points))
	for i, p := range r.Points {
		points[i] = dto.ForecastPoint{Date: p.Date.Format("2006-01-02"), Demand: p.Demand}
	}

	var stockout *string
	if r.StockoutDate != nil {
		s := r.StockoutDate.Format("2006-01-02")
		stockout = &s
	}

	return dto.ForecastResponse{
		ProductID:           r.ProductID.String(),
		Model:               r.Model,
		HorizonDays:         r.HorizonDays,
		LeadTimeDays:        r.LeadTimeDays,
		CurrentStock:        r.CurrentStock,
		Forecast:            points,
		StockoutDate:        stockout,
		TargetCoverDays:     r.TargetCoverDays,
		RecommendedOrderQty: r.RecommendedOrderQty,
	}
}
