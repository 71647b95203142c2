package service

import (
	"context"
	"errors"

	"fleet/internal/repository"
)

// resolveOrCreate is the find-or-create pattern shared by the company, driver
// and vehicle resolvers: return the entity matching its natural key, or create
// one when the lookup reports absence. Any other lookup error propagates.
//
// The read-then-write gap between find and create is closed by the store's
// partial unique indexes; a concurrent loser surfaces a DuplicateKeyError.
func resolveOrCreate[T any](
	ctx context.Context,
	find func(context.Context) (*T, error),
	create func(context.Context) (*T, error),
) (*T, error) {
	existing, err := find(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return create(ctx)
}
