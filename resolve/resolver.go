// Package resolve maps identifiers to typed assets using injected store.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"qrender/asset"
)

// ErrNotFound signals absence of asset, it is expected outcome rather than failure.
var ErrNotFound = errors.New("asset not found")

// Store is implemented by asset storage outside of this package. Lookup
// returns ErrNotFound (possibly wrapped) when there is no asset of requested
// kind with given id. Implementations must be safe for concurrent use.
type Store interface {
	Lookup(ctx context.Context, kind asset.Kind, id string) (asset.Asset, error)
}

// StoreFunc adapts ordinary function to Store.
type StoreFunc func(ctx context.Context, kind asset.Kind, id string) (asset.Asset, error)

func (f StoreFunc) Lookup(ctx context.Context, kind asset.Kind, id string) (asset.Asset, error) {
	return f(ctx, kind, id)
}

// Lookuper is what hydration needs from resolver.
type Lookuper interface {
	Resolve(ctx context.Context, id string) (asset.Asset, error)
}

// Order in which asset kinds are looked up. Content kinds go first, this is also
// the tie-break when the same identifier exists under several kinds.
var Order = []asset.Kind{
	asset.KindPage,
	asset.KindTable,
	asset.KindImage,
	asset.KindAudio,
	asset.KindVideo,
}

// Resolver determines asset kind by probing store in fixed order.
type Resolver struct {
	store Store
	log   *zap.Logger
}

// New returns resolver on top of store.
func New(store Store, log *zap.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve returns first asset found for id following Order. It returns
// ErrNotFound when id is unknown to every kind.
func (r *Resolver) Resolve(ctx context.Context, id string) (asset.Asset, error) {
	for _, kind := range Order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := r.store.Lookup(ctx, kind, id)
		switch {
		case err == nil:
			if a == nil {
				return nil, fmt.Errorf("store returned nil %s asset for %q", kind, id)
			}
			if got, _ := asset.KindOf(a); got != kind {
				return nil, fmt.Errorf("store returned %q asset for %s lookup of %q", got, kind, id)
			}
			r.log.Debug("Asset resolved", zap.String("id", id), zap.Stringer("kind", kind))
			return a, nil
		case errors.Is(err, ErrNotFound):
			continue
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			return nil, fmt.Errorf("unable to lookup %s asset %q: %w", kind, id, err)
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
}
