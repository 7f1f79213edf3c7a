package shared

import "context"

// TransactionManager runs a function inside a single database transaction.
// Repositories resolve the active transaction from the context, so every
// repository call made within fn shares the same transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
