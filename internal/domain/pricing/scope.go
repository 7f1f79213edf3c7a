package pricing

import (
	"time"

	"github.com/google/uuid"
)

// ScopeLevel ranks pricing rules by specificity. A rule pinned to an
// agreement beats one pinned to a counterparty, which beats one pinned to a
// price type, which beats a global rule. The numeric order is the total
// order used for ranking and must stay compatible with the 1C feed.
type ScopeLevel int

const (
	ScopeGlobal       ScopeLevel = 1
	ScopePriceType    ScopeLevel = 2
	ScopeCounterparty ScopeLevel = 3
	ScopeAgreement    ScopeLevel = 4
)

// String returns the wire name of the scope level
func (l ScopeLevel) String() string {
	switch l {
	case ScopeAgreement:
		return "AGREEMENT"
	case ScopeCounterparty:
		return "COUNTERPARTY"
	case ScopePriceType:
		return "PRICE_TYPE"
	default:
		return "GLOBAL"
	}
}

// ResolvedContext is the flattened commercial context a price is resolved
// against. Nil fields mean the dimension is not pinned by the caller.
type ResolvedContext struct {
	CounterpartyID *uuid.UUID
	AgreementID    *uuid.UUID
	PriceTypeID    *uuid.UUID
}

// windowContains reports whether an activity window [start, end] contains
// the given instant. A nil bound leaves that side open.
func windowContains(start, end *time.Time, at time.Time) bool {
	if start != nil && at.Before(*start) {
		return false
	}
	if end != nil && at.After(*end) {
		return false
	}
	return true
}

// matchKey reports whether a rule's scoping key accepts the resolved value.
// A nil rule key is a wildcard; a non-nil key must equal the resolved value,
// and rejects when the dimension is not resolved at all.
func matchKey(ruleKey, resolved *uuid.UUID) bool {
	if ruleKey == nil {
		return true
	}
	return resolved != nil && *ruleKey == *resolved
}

// StartDateAfter compares two optional start dates, treating nil as the
// earliest possible instant. Used as the tie-break among rules of equal
// specificity: the later start date wins.
func StartDateAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
