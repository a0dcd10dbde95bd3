package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"qrender/asset"
	"qrender/common"
	"qrender/config"
	"qrender/resolve"
)

// Putter stores assets.
type Putter interface {
	Put(ctx context.Context, a asset.Asset) error
}

// Backend is asset store opened according to configuration.
type Backend interface {
	resolve.Store
	Putter
	IDs(ctx context.Context, kind asset.Kind) ([]string, error)
	Close() error
}

// Open returns backend selected by configuration. Memory backend is populated
// from asset pack at cfg.Path, sqlite backend is opened read-only.
func Open(ctx context.Context, cfg *config.StoreConfig, log *zap.Logger) (Backend, error) {
	log = log.Named("store")

	switch cfg.Backend {
	case common.StoreBackendMemory:
		m := NewMemory()
		if len(cfg.Path) == 0 {
			log.Warn("No asset pack configured, every reference will be unresolved")
			return m, nil
		}
		pack, err := LoadPack(cfg.Path)
		if err != nil {
			return nil, err
		}
		n, err := Fill(ctx, m, pack, cfg.LocatorPrefix)
		if err != nil {
			return nil, err
		}
		log.Info("Asset pack loaded", zap.String("path", cfg.Path), zap.Int("assets", n))
		return m, nil
	case common.StoreBackendSqlite:
		return OpenSQLite(ctx, cfg.Path, cfg.PoolSize, true, log)
	default:
		// this should never happen
		panic(fmt.Sprintf("unsupported store backend %q", cfg.Backend))
	}
}

// Fill puts every pack asset into backend and returns number of assets stored.
func Fill(ctx context.Context, b Putter, pack *Pack, prefix string) (int, error) {
	assets, err := pack.Assets(prefix)
	if err != nil {
		return 0, err
	}
	for _, a := range assets {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := b.Put(ctx, a); err != nil {
			return 0, fmt.Errorf("unable to store asset %q: %w", a.Ref(), err)
		}
	}
	return len(assets), nil
}
