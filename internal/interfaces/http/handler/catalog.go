package handler

import (
	"errors"
	"time"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

var errMissingProductGUID = errors.New("productGuid query parameter is required")

// CatalogHandler serves the portal-facing catalog queries
type CatalogHandler struct {
	BaseHandler
	resolver *appricing.Resolver
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(resolver *appricing.Resolver) *CatalogHandler {
	return &CatalogHandler{resolver: resolver}
}

// RegisterRoutes registers the catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/price", h.ResolvePrice)
	}
}

// ResolvePrice computes the effective price of a product for a commercial
// context given by query parameters. An explicit `at` narrows the query to
// a past or future instant; the default is now.
func (h *CatalogHandler) ResolvePrice(c *gin.Context) {
	query := appricing.Query{
		ProductGUID:      c.Query("productGuid"),
		CounterpartyGUID: c.Query("counterpartyGuid"),
		AgreementGUID:    c.Query("agreementGuid"),
		PriceTypeGUID:    c.Query("priceTypeGuid"),
	}
	if query.ProductGUID == "" {
		h.ValidationError(c, errMissingProductGUID)
		return
	}
	if raw := c.Query("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.ValidationError(c, err)
			return
		}
		query.At = at
	}

	quote, err := h.resolver.Resolve(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.PriceQuoteViewFromDomain(quote))
}
