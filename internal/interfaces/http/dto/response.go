package dto

import (
	"time"

	appsync "github.com/b2bportal/backend/internal/application/sync"
	"github.com/b2bportal/backend/internal/domain/order"
	"github.com/b2bportal/backend/internal/domain/syncrun"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchRequest is the common envelope of every reconciliation endpoint.
// The shared secret may alternatively arrive as a query parameter.
type BatchRequest[T any] struct {
	Secret string `json:"secret"`
	Items  []T    `json:"items" binding:"required,min=1"`
}

// BatchResponse reports per-item outcomes of a batch. Partial failure is
// visible only here and in the sync run ledger, never in the HTTP status.
type BatchResponse struct {
	Success bool                 `json:"success"`
	Count   int                  `json:"count"`
	Results []appsync.ItemResult `json:"results"`
}

// NewBatchResponse builds the batch envelope from item results
func NewBatchResponse(results []appsync.ItemResult) BatchResponse {
	return BatchResponse{
		Success: true,
		Count:   len(results),
		Results: results,
	}
}

// Response is the standard non-batch API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	}
}

// ValidationErrorResponse is the 400 shape for malformed batch payloads
type ValidationErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// NewValidationErrorResponse creates the malformed-payload response
func NewValidationErrorResponse(details string) ValidationErrorResponse {
	return ValidationErrorResponse{
		Error:   "Validation error",
		Details: details,
	}
}

// OrderItemExport is one order line in the export feed
type OrderItemExport struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	PackageID    *uuid.UUID      `json:"packageId,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	QuantityBase decimal.Decimal `json:"quantityBase"`
	Price        decimal.Decimal `json:"price"`
	LineAmount   decimal.Decimal `json:"lineAmount"`
}

// OrderExport is the order shape handed to the 1C poller
type OrderExport struct {
	GUID              string            `json:"guid"`
	Status            string            `json:"status"`
	BuyerID           uuid.UUID         `json:"buyerId"`
	CounterpartyID    uuid.UUID         `json:"counterpartyId"`
	AgreementID       *uuid.UUID        `json:"agreementId,omitempty"`
	ContractID        *uuid.UUID        `json:"contractId,omitempty"`
	WarehouseID       *uuid.UUID        `json:"warehouseId,omitempty"`
	DeliveryAddressID *uuid.UUID        `json:"deliveryAddressId,omitempty"`
	PriceTypeID       *uuid.UUID        `json:"priceTypeId,omitempty"`
	Comment           string            `json:"comment,omitempty"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"`
	Currency          string            `json:"currency"`
	QueuedAt          time.Time         `json:"queuedAt"`
	ExportAttempts    int               `json:"exportAttempts"`
	LastExportError   string            `json:"lastExportError,omitempty"`
	Items             []OrderItemExport `json:"items"`
}

// OrderExportFromDomain converts an order to its export shape
func OrderExportFromDomain(o *order.Order) OrderExport {
	items := make([]OrderItemExport, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemExport{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			PackageID:    item.PackageID,
			Quantity:     item.Quantity,
			Multiplier:   item.Multiplier,
			QuantityBase: item.QuantityBase,
			Price:        item.Price,
			LineAmount:   item.LineAmount,
		}
	}
	return OrderExport{
		GUID:              o.GUID,
		Status:            o.Status,
		BuyerID:           o.BuyerID,
		CounterpartyID:    o.CounterpartyID,
		AgreementID:       o.AgreementID,
		ContractID:        o.ContractID,
		WarehouseID:       o.WarehouseID,
		DeliveryAddressID: o.DeliveryAddressID,
		PriceTypeID:       o.PriceTypeID,
		Comment:           o.Comment,
		TotalAmount:       o.TotalAmount,
		Currency:          o.Currency,
		QueuedAt:          o.QueuedAt,
		ExportAttempts:    o.ExportAttempts,
		LastExportError:   o.LastExportError,
		Items:             items,
	}
}

// QueuedOrdersResponse is the order export pull envelope
type QueuedOrdersResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Orders  []OrderExport `json:"orders"`
}

// SyncRunView is the listing shape of a sync run
type SyncRunView struct {
	ID           uuid.UUID         `json:"id"`
	RequestID    string            `json:"requestId"`
	Entity       string            `json:"entity"`
	Direction    syncrun.Direction `json:"direction"`
	Status       syncrun.Status    `json:"status"`
	TotalCount   int               `json:"totalCount"`
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Notes        string            `json:"notes,omitempty"`
	Error        string            `json:"error,omitempty"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   *time.Time        `json:"finishedAt,omitempty"`
	Items        []SyncRunItemView `json:"items,omitempty"`
}

// SyncRunItemView is the per-item detail of a sync run
type SyncRunItemView struct {
	Key    string `json:"key"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SyncRunViewFromDomain converts a run to its API shape
func SyncRunViewFromDomain(run *syncrun.SyncRun) SyncRunView {
	view := SyncRunView{
		ID:           run.ID,
		RequestID:    run.RequestID,
		Entity:       run.Entity,
		Direction:    run.Direction,
		Status:       run.Status,
		TotalCount:   run.TotalCount,
		SuccessCount: run.SuccessCount,
		ErrorCount:   run.ErrorCount,
		Notes:        run.Notes,
		Error:        run.Error,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
	for _, item := range run.Items {
		view.Items = append(view.Items, SyncRunItemView{
			Key:    item.Key,
			Status: item.Status,
			Error:  item.Error,
		})
	}
	return view
}
