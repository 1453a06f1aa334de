package handler

import (
	"errors"
	"net/http"

	"stockwatch/internal/apierror"
	"stockwatch/internal/dto"
	"stockwatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderHandler records sales, which feed the forecast history and drive
// stock down through the monitored decrement path.
type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), productID, req.Quantity)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Product not found"))
		return
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, apierror.New("Insufficient stock"))
		return
	case err != nil:
		log.Error().Err(err).Msg("create order failed")
		c.JSON(http.StatusInternalServerError, apierror.New("could not create order"))
		return
	}

	c.JSON(http.StatusCreated, dto.OrderResponse{
		ID:        order.ID.String(),
		ProductID: order.ProductID.String(),
		Quantity:  order.Quantity,
		Total:     order.Total.StringFixed(2),
		CreatedAt: order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}
