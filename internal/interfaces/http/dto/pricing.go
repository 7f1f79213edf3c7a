package dto

import (
	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceQuoteView is the API shape of an effective price quote
type PriceQuoteView struct {
	ProductID uuid.UUID          `json:"productId"`
	Price     decimal.Decimal    `json:"price"`
	Currency  string             `json:"currency"`
	MinQty    decimal.Decimal    `json:"minQty"`
	Scope     pricing.ScopeLevel `json:"scope"`
	Source    string             `json:"source"`
	RuleID    uuid.UUID          `json:"ruleId"`
}

// PriceQuoteViewFromDomain converts a quote to its API shape
func PriceQuoteViewFromDomain(q *appricing.Quote) PriceQuoteView {
	return PriceQuoteView{
		ProductID: q.ProductID,
		Price:     q.Price,
		Currency:  q.Currency,
		MinQty:    q.MinQty,
		Scope:     q.Scope,
		Source:    q.Source,
		RuleID:    q.RuleID,
	}
}
