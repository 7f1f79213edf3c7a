package handler

import (
	"net/http"
	"strconv"

	apporder "github.com/b2bportal/backend/internal/application/order"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ExportHandler serves the order hand-off surface the 1C poller works
// against: pull queued orders, acknowledge each attempt, push statuses.
type ExportHandler struct {
	BaseHandler
	export *apporder.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(export *apporder.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// RegisterRoutes registers the export routes
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("/queued", h.Queued)
		orders.POST("/:guid/ack", h.Acknowledge)
		orders.POST("/status/batch", h.StatusBatch)
	}
}

// Queued returns orders awaiting hand-off, oldest first
func (h *ExportHandler) Queued(c *gin.Context) {
	includeSent := c.Query("includeSent") == "true"
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationError(c, err)
			return
		}
		limit = parsed
	}

	orders, err := h.export.Queued(c.Request.Context(), includeSent, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	exports := make([]dto.OrderExport, len(orders))
	for i := range orders {
		exports[i] = dto.OrderExportFromDomain(&orders[i])
	}
	c.JSON(http.StatusOK, dto.QueuedOrdersResponse{
		Success: true,
		Count:   len(exports),
		Orders:  exports,
	})
}

// Acknowledge records the outcome of one export attempt
func (h *ExportHandler) Acknowledge(c *gin.Context) {
	var req apporder.AckRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.ValidationError(c, err)
		return
	}

	o, err := h.export.Acknowledge(c.Request.Context(), c.Param("guid"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.OrderExportFromDomain(o))
}

// StatusBatch applies an authoritative order status push
func (h *ExportHandler) StatusBatch(c *gin.Context) {
	var req dto.BatchRequest[apporder.StatusItem]
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := h.export.ApplyStatusBatch(c.Request.Context(), req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BatchResults(c, results)
}
