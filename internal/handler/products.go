package handler

import (
	"errors"
	"net/http"
	"strconv"

	"stockwatch/internal/apierror"
	"stockwatch/internal/dto"
	"stockwatch/internal/model"
	"stockwatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductHandler exposes the thin product surface: create/list, the stock
// decrement mutation, and the forecast read.
type ProductHandler struct {
	stock     service.StockService
	forecasts service.ForecastService

	defaultHorizonDays  int
	defaultLeadTimeDays int
}

func NewProductHandler(stock service.StockService, forecasts service.ForecastService, horizonDays, leadTimeDays int) *ProductHandler {
	return &ProductHandler{
		stock:               stock,
		forecasts:           forecasts,
		defaultHorizonDays:  horizonDays,
		defaultLeadTimeDays: leadTimeDays,
	}
}

type createProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Stock         int    `json:"stock" binding:"gte=0"`
	CriticalStock int    `json:"critical_stock" binding:"gte=0"`
	Price         string `json:"price" binding:"required"`
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid price"))
		return
	}

	p := &model.Product{
		Name:          req.Name,
		Stock:         req.Stock,
		CriticalStock: req.CriticalStock,
		Price:         price,
		Active:        true,
	}
	if err := h.stock.CreateProduct(c.Request.Context(), p); err != nil {
		log.Error().Err(err).Msg("create product failed")
		c.JSON(http.StatusInternalServerError, apierror.New("could not create product"))
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.stock.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not list products"))
		return
	}
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Decrement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.DecrementStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	p, err := h.stock.Decrement(c.Request.Context(), id, req.Quantity)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, apierror.New("Insufficient stock"))
		return
	case err != nil:
		log.Error().Err(err).Str("product_id", id.String()).Msg("decrement failed")
		c.JSON(http.StatusInternalServerError, apierror.New("could not update stock"))
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h *ProductHandler) Forecast(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	horizon := queryInt(c, "horizon_days", h.defaultHorizonDays)
	leadTime := queryInt(c, "lead_time_days", h.defaultLeadTimeDays)

	result, err := h.forecasts.Forecast(c.Request.Context(), id, horizon, leadTime)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	case err != nil:
		log.Error().Err(err).Str("product_id", id.String()).Msg("forecast failed")
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute forecast"))
		return
	}
	c.JSON(http.StatusOK, toForecastResponse(result))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
