package handler

import (
	"errors"
	"net/http"

	appsync "github.com/b2bportal/backend/internal/application/sync"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// BatchResults sends the batch envelope with per-item outcomes
func (h *BaseHandler) BatchResults(c *gin.Context, results []appsync.ItemResult) {
	c.JSON(http.StatusOK, dto.NewBatchResponse(results))
}

// ValidationError sends the 400 malformed-payload response
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(err.Error()))
}

// HandleError converts domain errors to HTTP responses; anything that is
// not a domain error is an unexpected failure and maps to 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL_ERROR", "An unexpected error occurred"))
}
