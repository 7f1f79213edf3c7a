package handler

import (
	"errors"

	apporder "github.com/b2bportal/backend/internal/application/order"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

var errMissingBuyerID = errors.New("X-Buyer-ID header is required")

// OrderHandler serves the portal-facing order endpoints. The buyer is
// identified by the X-Buyer-ID header set by the authenticating proxy.
type OrderHandler struct {
	BaseHandler
	orders *apporder.Service
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orders *apporder.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers the order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Create)
}

// Create builds, prices and queues a new order for the buyer
func (h *OrderHandler) Create(c *gin.Context) {
	rawBuyerID := c.GetHeader("X-Buyer-ID")
	if rawBuyerID == "" {
		h.ValidationError(c, errMissingBuyerID)
		return
	}
	buyerID, err := uuid.Parse(rawBuyerID)
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	var req apporder.CreateOrderRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.ValidationError(c, err)
		return
	}

	o, err := h.orders.Create(c.Request.Context(), buyerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.OrderExportFromDomain(o))
}
