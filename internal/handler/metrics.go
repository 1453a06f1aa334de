package handler

import (
	"net/http"

	"stockwatch/internal/apierror"
	"stockwatch/internal/service"

	"github.com/gin-gonic/gin"
)

// MetricsHandler serves the inventory overview.
type MetricsHandler struct {
	metrics service.MetricsService
}

func NewMetricsHandler(metrics service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) Overview(c *gin.Context) {
	out, err := h.metrics.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("could not compute metrics"))
		return
	}
	c.JSON(http.StatusOK, out)
}
