package handler

import (
	"strconv"

	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunHandler exposes the sync run ledger for inspection
type RunHandler struct {
	BaseHandler
	runs syncrun.Repository
}

// NewRunHandler creates a RunHandler
func NewRunHandler(runs syncrun.Repository) *RunHandler {
	return &RunHandler{runs: runs}
}

// RegisterRoutes registers the sync run routes
func (h *RunHandler) RegisterRoutes(rg *gin.RouterGroup) {
	runs := rg.Group("/runs")
	{
		runs.GET("", h.List)
		runs.GET("/:id", h.Get)
	}
}

// List returns recent runs, newest first, optionally filtered by entity,
// direction and status
func (h *RunHandler) List(c *gin.Context) {
	filter := syncrun.Filter{
		Entity:    c.Query("entity"),
		Direction: syncrun.Direction(c.Query("direction")),
		Status:    syncrun.Status(c.Query("status")),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationError(c, err)
			return
		}
		filter.Limit = limit
	}

	runs, err := h.runs.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	views := make([]dto.SyncRunView, len(runs))
	for i := range runs {
		views[i] = dto.SyncRunViewFromDomain(&runs[i])
	}
	h.Success(c, views)
}

// Get returns one run, optionally with its per-item results
func (h *RunHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.ValidationError(c, err)
		return
	}

	includeItems := c.Query("includeItems") == "true"
	itemsLimit := 0
	if raw := c.Query("itemsLimit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationError(c, err)
			return
		}
		itemsLimit = parsed
	}

	run, err := h.runs.FindByID(c.Request.Context(), id, includeItems, itemsLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.SyncRunViewFromDomain(run))
}
