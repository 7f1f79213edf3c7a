package handler

import (
	appsync "github.com/b2bportal/backend/internal/application/sync"
	"github.com/b2bportal/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// SyncHandler exposes the reconciliation endpoints the 1C ledger system
// pushes its batches to. Every endpoint shares the envelope: a secret plus
// at least one item; per-item failures surface in the results array, not in
// the HTTP status.
type SyncHandler struct {
	BaseHandler
	nomenclature   *appsync.NomenclatureService
	stock          *appsync.StockService
	counterparties *appsync.CounterpartyService
	warehouses     *appsync.WarehouseService
	agreements     *appsync.AgreementService
	specialPrices  *appsync.SpecialPriceService
	prices         *appsync.PriceService
}

// NewSyncHandler creates a SyncHandler
func NewSyncHandler(
	nomenclature *appsync.NomenclatureService,
	stock *appsync.StockService,
	counterparties *appsync.CounterpartyService,
	warehouses *appsync.WarehouseService,
	agreements *appsync.AgreementService,
	specialPrices *appsync.SpecialPriceService,
	prices *appsync.PriceService,
) *SyncHandler {
	return &SyncHandler{
		nomenclature:   nomenclature,
		stock:          stock,
		counterparties: counterparties,
		warehouses:     warehouses,
		agreements:     agreements,
		specialPrices:  specialPrices,
		prices:         prices,
	}
}

// RegisterRoutes registers the reconciliation routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/nomenclature", h.SyncNomenclature)
	rg.POST("/stock", h.SyncStock)
	rg.POST("/counterparties", h.SyncCounterparties)
	rg.POST("/warehouses", h.SyncWarehouses)
	rg.POST("/agreements", h.SyncAgreements)
	rg.POST("/special-prices", h.SyncSpecialPrices)
	rg.POST("/prices", h.SyncPrices)
}

// runBatch binds the envelope and dispatches to the given reconciler.
// The body was already buffered by the secret middleware, so binding goes
// through ShouldBindBodyWith.
func runBatch[T any](h *SyncHandler, c *gin.Context, sync func([]T) ([]appsync.ItemResult, error)) {
	var req dto.BatchRequest[T]
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		h.ValidationError(c, err)
		return
	}

	results, err := sync(req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.BatchResults(c, results)
}

// SyncNomenclature ingests a batch of product groups and products
func (h *SyncHandler) SyncNomenclature(c *gin.Context) {
	runBatch(h, c, func(items []appsync.NomenclatureItem) ([]appsync.ItemResult, error) {
		return h.nomenclature.Sync(c.Request.Context(), items)
	})
}

// SyncStock ingests a batch of stock balances
func (h *SyncHandler) SyncStock(c *gin.Context) {
	runBatch(h, c, func(items []appsync.StockItem) ([]appsync.ItemResult, error) {
		return h.stock.Sync(c.Request.Context(), items)
	})
}

// SyncCounterparties ingests a batch of counterparties with addresses
func (h *SyncHandler) SyncCounterparties(c *gin.Context) {
	runBatch(h, c, func(items []appsync.CounterpartyItem) ([]appsync.ItemResult, error) {
		return h.counterparties.Sync(c.Request.Context(), items)
	})
}

// SyncWarehouses ingests a batch of warehouses
func (h *SyncHandler) SyncWarehouses(c *gin.Context) {
	runBatch(h, c, func(items []appsync.WarehouseItem) ([]appsync.ItemResult, error) {
		return h.warehouses.Sync(c.Request.Context(), items)
	})
}

// SyncAgreements ingests a batch of price type/contract/agreement triples
func (h *SyncHandler) SyncAgreements(c *gin.Context) {
	runBatch(h, c, func(items []appsync.AgreementItem) ([]appsync.ItemResult, error) {
		return h.agreements.Sync(c.Request.Context(), items)
	})
}

// SyncSpecialPrices ingests a batch of special price rules
func (h *SyncHandler) SyncSpecialPrices(c *gin.Context) {
	runBatch(h, c, func(items []appsync.SpecialPriceItem) ([]appsync.ItemResult, error) {
		return h.specialPrices.Sync(c.Request.Context(), items)
	})
}

// SyncPrices ingests a batch of base prices
func (h *SyncHandler) SyncPrices(c *gin.Context) {
	runBatch(h, c, func(items []appsync.PriceItem) ([]appsync.ItemResult, error) {
		return h.prices.Sync(c.Request.Context(), items)
	})
}
