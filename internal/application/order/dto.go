package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the portal-facing order creation payload. The
// commercial dimensions are optional; each one falls back to the buyer's
// stored default when omitted. Ledger-mastered entities are referenced by
// GUID, locally mastered rows (addresses, packages) by local ID.
type CreateOrderRequest struct {
	CounterpartyGUID  string            `json:"counterpartyGuid"`
	AgreementGUID     string            `json:"agreementGuid"`
	ContractGUID      string            `json:"contractGuid"`
	WarehouseGUID     string            `json:"warehouseGuid"`
	PriceTypeGUID     string            `json:"priceTypeGuid"`
	DeliveryAddressID *uuid.UUID        `json:"deliveryAddressId"`
	Comment           string            `json:"comment"`
	Items             []CreateOrderItem `json:"items" binding:"required,min=1"`
}

// CreateOrderItem is one requested order line
type CreateOrderItem struct {
	ProductGUID string          `json:"productGuid" binding:"required"`
	PackageID   *uuid.UUID      `json:"packageId"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AckRequest is one export acknowledgment from the poller. A non-empty
// Error marks the attempt as failed; otherwise the hand-off succeeded.
type AckRequest struct {
	Status     string     `json:"status"`
	Number1c   string     `json:"number1c"`
	Date1c     *time.Time `json:"date1c"`
	SentTo1cAt *time.Time `json:"sentTo1cAt"`
	Error      string     `json:"error"`
}

// StatusItem is one row of the authoritative status push batch
type StatusItem struct {
	GUID        string           `json:"guid" binding:"required"`
	Status      string           `json:"status" binding:"required"`
	Number1c    string           `json:"number1c"`
	Date1c      *time.Time       `json:"date1c"`
	Comment     string           `json:"comment"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
	Currency    string           `json:"currency"`
}
