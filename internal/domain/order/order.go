package order

import (
	"time"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Statuses driven by the export handshake. After SENT_TO_1C the ledger
// system is authoritative and may push any status it reports.
const (
	StatusQueued   = "QUEUED"
	StatusSentTo1C = "SENT_TO_1C"
)

// Order represents a portal order awaiting or past hand-off to the 1C
// ledger system. The GUID is generated locally at creation and serves as
// the correlation identifier for the export/acknowledgment protocol.
type Order struct {
	shared.BaseEntity
	GUID              string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	BuyerID           uuid.UUID `gorm:"type:uuid;not null;index"`
	Status            string    `gorm:"type:varchar(50);not null;default:'QUEUED';index"`
	CounterpartyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AgreementID       *uuid.UUID `gorm:"type:uuid"`
	ContractID        *uuid.UUID `gorm:"type:uuid"`
	WarehouseID       *uuid.UUID `gorm:"type:uuid"`
	DeliveryAddressID *uuid.UUID `gorm:"type:uuid"`
	PriceTypeID       *uuid.UUID `gorm:"type:uuid"`
	Comment           string     `gorm:"type:varchar(1000)"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'RUB'"`
	QueuedAt          time.Time       `gorm:"not null;index"`
	ExportAttempts    int             `gorm:"not null;default:0"`
	LastExportError   string          `gorm:"type:varchar(2000)"`
	SentTo1cAt        *time.Time
	Number1c          string `gorm:"type:varchar(100)"`
	Date1c            *time.Time
	LastStatusSyncAt  *time.Time
	Items             []OrderItem `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents one line of an order. QuantityBase is the quantity
// converted into the product's base unit via the package multiplier, and
// LineAmount = QuantityBase × Price.
type OrderItem struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName  string          `gorm:"type:varchar(500);not null"`
	PackageID    *uuid.UUID      `gorm:"type:uuid"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Multiplier   decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"`
	QuantityBase decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates an order in the QUEUED state with a fresh correlation GUID
func NewOrder(buyerID, counterpartyID uuid.UUID, currency string) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewValidationError("order buyer cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("order counterparty cannot be empty")
	}
	if currency == "" {
		currency = "RUB"
	}
	return &Order{
		BaseEntity:     shared.NewBaseEntity(),
		GUID:           uuid.NewString(),
		BuyerID:        buyerID,
		Status:         StatusQueued,
		CounterpartyID: counterpartyID,
		TotalAmount:    decimal.Zero,
		Currency:       currency,
		QueuedAt:       time.Now(),
	}, nil
}

// AddItem appends a line item and recalculates the order total.
// quantityBase = quantity × multiplier; lineAmount = quantityBase × price.
func (o *Order) AddItem(productID uuid.UUID, productName string, packageID *uuid.UUID, quantity, multiplier, price decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("item product cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("item quantity must be positive")
	}
	if multiplier.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("item multiplier must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("item price cannot be negative")
	}

	quantityBase := quantity.Mul(multiplier).Round(4)
	item := OrderItem{
		BaseEntity:   shared.NewBaseEntity(),
		OrderID:      o.ID,
		ProductID:    productID,
		ProductName:  productName,
		PackageID:    packageID,
		Quantity:     quantity,
		Multiplier:   multiplier,
		QuantityBase: quantityBase,
		Price:        price,
		LineAmount:   quantityBase.Mul(price).Round(2),
	}
	o.Items = append(o.Items, item)
	o.recalcTotal()
	return &o.Items[len(o.Items)-1], nil
}

func (o *Order) recalcTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineAmount)
	}
	o.TotalAmount = total
	o.Touch()
}

// AcknowledgeFailure records a failed export attempt: the order stays
// QUEUED for the next poll, the attempt counter advances and the error is
// kept for operators.
func (o *Order) AcknowledgeFailure(exportError string) {
	o.Status = StatusQueued
	o.ExportAttempts++
	o.LastExportError = exportError
	o.SentTo1cAt = nil
	o.Touch()
}

// AcknowledgeSuccess records a successful hand-off. The status defaults to
// SENT_TO_1C unless the ledger system reports a different one. Repeated
// acknowledgments re-apply the same state; only ExportAttempts keeps
// counting.
func (o *Order) AcknowledgeSuccess(status, number1c string, date1c, sentAt *time.Time) {
	if status == "" {
		status = StatusSentTo1C
	}
	o.Status = status
	o.ExportAttempts++
	o.LastExportError = ""
	if number1c != "" {
		o.Number1c = number1c
	}
	if date1c != nil {
		o.Date1c = date1c
	}
	if sentAt != nil {
		o.SentTo1cAt = sentAt
	} else {
		now := time.Now()
		o.SentTo1cAt = &now
	}
	o.Touch()
}

// StatusUpdate carries one authoritative status push from the ledger system
type StatusUpdate struct {
	Status      string
	Number1c    string
	Date1c      *time.Time
	Comment     string
	TotalAmount *decimal.Decimal
	Currency    string
}

// ApplyStatusUpdate applies an authoritative push. The ledger system owns
// the downstream lifecycle, so any non-empty status is accepted verbatim.
func (o *Order) ApplyStatusUpdate(upd StatusUpdate) error {
	if upd.Status == "" {
		return shared.NewValidationError("status cannot be empty")
	}
	o.Status = upd.Status
	if upd.Number1c != "" {
		o.Number1c = upd.Number1c
	}
	if upd.Date1c != nil {
		o.Date1c = upd.Date1c
	}
	if upd.Comment != "" {
		o.Comment = upd.Comment
	}
	if upd.TotalAmount != nil {
		o.TotalAmount = *upd.TotalAmount
	}
	if upd.Currency != "" {
		o.Currency = upd.Currency
	}
	now := time.Now()
	o.LastStatusSyncAt = &now
	o.Touch()
	return nil
}

// IsQueued reports whether the order still awaits hand-off
func (o *Order) IsQueued() bool {
	return o.Status == StatusQueued
}
