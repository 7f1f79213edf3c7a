package sync

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// guidCache resolves ledger GUIDs to local IDs within one batch. Upserts
// performed earlier in the same call populate it, so later items see their
// in-batch dependencies without a store round-trip.
type guidCache struct {
	ids map[string]uuid.UUID
}

func newGUIDCache() *guidCache {
	return &guidCache{ids: make(map[string]uuid.UUID)}
}

// put records a freshly upserted entity
func (c *guidCache) put(guid string, id uuid.UUID) {
	if guid != "" {
		c.ids[guid] = id
	}
}

// resolve returns the local ID for a GUID, consulting the in-batch cache
// first and falling back to the store lookup. A shared.ErrNotFound from the
// lookup surfaces as (Nil, false, nil); other errors propagate.
func (c *guidCache) resolve(ctx context.Context, guid string, lookup func(context.Context, string) (uuid.UUID, error)) (uuid.UUID, bool, error) {
	if guid == "" {
		return uuid.Nil, false, nil
	}
	if id, ok := c.ids[guid]; ok {
		return id, true, nil
	}
	id, err := lookup(ctx, guid)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || isNotFound(err) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	c.ids[guid] = id
	return id, true, nil
}

func isNotFound(err error) bool {
	var derr *shared.DomainError
	return errors.As(err, &derr) && derr.Code == shared.CodeNotFound
}
