package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/maruel/natural"

	"qrender/asset"
	"qrender/resolve"
)

// Memory keeps assets in maps, one per kind.
type Memory struct {
	mu     sync.RWMutex
	assets map[asset.Kind]map[string]asset.Asset
}

func NewMemory() *Memory {
	return &Memory{assets: make(map[asset.Kind]map[string]asset.Asset)}
}

// Put adds or replaces stored asset. Links cannot be stored.
func (m *Memory) Put(_ context.Context, a asset.Asset) error {
	kind, ok := asset.KindOf(a)
	if !ok {
		return fmt.Errorf("unable to store %T", a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	byID, ok := m.assets[kind]
	if !ok {
		byID = make(map[string]asset.Asset)
		m.assets[kind] = byID
	}
	byID[a.Ref()] = a
	return nil
}

func (m *Memory) Lookup(ctx context.Context, kind asset.Kind, id string) (asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, ok := m.assets[kind][id]; ok {
		return a, nil
	}
	return nil, resolve.ErrNotFound
}

// IDs returns identifiers of kind in natural order.
func (m *Memory) IDs(_ context.Context, kind asset.Kind) ([]string, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.assets[kind]))
	for id := range m.assets[kind] {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	slices.SortFunc(ids, naturalCompare)
	return ids, nil
}

func (m *Memory) Close() error {
	return nil
}

func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}
