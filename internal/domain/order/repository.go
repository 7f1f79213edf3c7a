package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for orders
type Repository interface {
	// FindByID finds an order with its items by local ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByGUID finds an order with its items by correlation GUID
	FindByGUID(ctx context.Context, guid string) (*Order, error)

	// FindQueued returns orders awaiting hand-off, oldest-queued first.
	// When includeSent is set, orders already in SENT_TO_1C are included.
	FindQueued(ctx context.Context, includeSent bool, limit int) ([]Order, error)

	// Save persists the order and all of its items atomically
	Save(ctx context.Context, order *Order) error
}
