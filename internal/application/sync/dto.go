package sync

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item payloads of the reconciliation feeds. Field shapes mirror the 1C
// exchange contract; string GUIDs are resolved to local IDs by the
// reconcilers. Boolean flags that default to true are pointers so an
// omitted field is distinguishable from an explicit false.

// UnitPayload is a nested unit of measure on a nomenclature item
type UnitPayload struct {
	GUID string `json:"guid" binding:"required"`
	Name string `json:"name" binding:"required"`
	Code string `json:"code"`
}

// PackagePayload is a nested packaging variant on a nomenclature item
type PackagePayload struct {
	GUID       string          `json:"guid"`
	Name       string          `json:"name" binding:"required"`
	UnitGUID   string          `json:"unitGuid"`
	Multiplier decimal.Decimal `json:"multiplier"`
	IsDefault  bool            `json:"isDefault"`
}

// NomenclatureItem is one row of the nomenclature feed: either a group node
// or a product, discriminated by IsGroup
type NomenclatureItem struct {
	GUID       string           `json:"guid" binding:"required"`
	IsGroup    bool             `json:"isGroup"`
	ParentGUID string           `json:"parentGuid"`
	Name       string           `json:"name" binding:"required"`
	Code       string           `json:"code"`
	Article    string           `json:"article"`
	SKU        string           `json:"sku"`
	IsWeight   bool             `json:"isWeight"`
	IsService  bool             `json:"isService"`
	IsActive   *bool            `json:"isActive"`
	BaseUnit   *UnitPayload     `json:"baseUnit"`
	Packages   []PackagePayload `json:"packages"`
}

// StockItem is one row of the stock feed, keyed by the product/warehouse pair
type StockItem struct {
	ProductGUID   string          `json:"productGuid" binding:"required"`
	WarehouseGUID string          `json:"warehouseGuid" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reserved      decimal.Decimal `json:"reserved"`
	UpdatedAt     *time.Time      `json:"updatedAt"`
}

// AddressPayload is a nested delivery address on a counterparty item
type AddressPayload struct {
	GUID     string `json:"guid"`
	Address  string `json:"address" binding:"required"`
	Comment  string `json:"comment"`
	IsActive *bool  `json:"isActive"`
}

// CounterpartyItem is one row of the counterparty feed
type CounterpartyItem struct {
	GUID      string           `json:"guid" binding:"required"`
	Name      string           `json:"name" binding:"required"`
	FullName  string           `json:"fullName"`
	INN       string           `json:"inn"`
	KPP       string           `json:"kpp"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email"`
	IsActive  *bool            `json:"isActive"`
	Addresses []AddressPayload `json:"addresses"`
}

// WarehouseItem is one row of the warehouse feed
type WarehouseItem struct {
	GUID      string `json:"guid" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code"`
	Address   string `json:"address"`
	IsActive  *bool  `json:"isActive"`
	IsDefault bool   `json:"isDefault"`
	IsPickup  bool   `json:"isPickup"`
}

// PriceTypePayload is the optional price type of an agreement item
type PriceTypePayload struct {
	GUID     string `json:"guid" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
	IsActive *bool  `json:"isActive"`
}

// ContractPayload is the contract of an agreement item
type ContractPayload struct {
	GUID             string     `json:"guid" binding:"required"`
	CounterpartyGUID string     `json:"counterpartyGuid" binding:"required"`
	Name             string     `json:"name" binding:"required"`
	Number           string     `json:"number"`
	Date             *time.Time `json:"date"`
	IsActive         *bool      `json:"isActive"`
}

// AgreementPayload is the agreement of an agreement item
type AgreementPayload struct {
	GUID             string `json:"guid" binding:"required"`
	Name             string `json:"name" binding:"required"`
	CounterpartyGUID string `json:"counterpartyGuid"`
	ContractGUID     string `json:"contractGuid"`
	WarehouseGUID    string `json:"warehouseGuid"`
	PriceTypeGUID    string `json:"priceTypeGuid"`
	Currency         string `json:"currency"`
	IsActive         *bool  `json:"isActive"`
}

// AgreementItem is one row of the agreement feed: an optional price type, a
// contract, and the agreement that links them. Processing order inside the
// item follows the dependency chain.
type AgreementItem struct {
	PriceType *PriceTypePayload `json:"priceType"`
	Contract  ContractPayload   `json:"contract" binding:"required"`
	Agreement AgreementPayload  `json:"agreement" binding:"required"`
}

// Key identifies the item in results; the agreement GUID is the natural choice
func (i AgreementItem) Key() string {
	return i.Agreement.GUID
}

// SpecialPriceItem is one row of the special price feed
type SpecialPriceItem struct {
	GUID             string          `json:"guid"`
	ProductGUID      string          `json:"productGuid" binding:"required"`
	CounterpartyGUID string          `json:"counterpartyGuid"`
	AgreementGUID    string          `json:"agreementGuid"`
	PriceTypeGUID    string          `json:"priceTypeGuid"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	StartDate        *time.Time      `json:"startDate"`
	EndDate          *time.Time      `json:"endDate"`
	MinQty           decimal.Decimal `json:"minQty"`
	IsActive         *bool           `json:"isActive"`
}

// PriceItem is one row of the base price feed
type PriceItem struct {
	GUID          string          `json:"guid"`
	ProductGUID   string          `json:"productGuid" binding:"required"`
	PriceTypeGUID string          `json:"priceTypeGuid"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	StartDate     *time.Time      `json:"startDate"`
	EndDate       *time.Time      `json:"endDate"`
	MinQty        decimal.Decimal `json:"minQty"`
	IsActive      *bool           `json:"isActive"`
}

// boolOrTrue reads an optional flag that defaults to true when omitted
func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
