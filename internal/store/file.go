package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/domain"
)

// LoadFile reads a JSON snapshot dump.
func LoadFile(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a JSON snapshot. Pool and chain keys fill in missing slugs.
func Decode(data []byte) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	for slug, pool := range snap.Pools {
		if pool.Slug == "" {
			pool.Slug = slug
			snap.Pools[slug] = pool
		}
	}
	for slug, chain := range snap.Chains {
		if chain.Slug == "" {
			chain.Slug = slug
			snap.Chains[slug] = chain
		}
	}
	for slug, asset := range snap.Assets {
		if asset.Slug == "" {
			asset.Slug = slug
			snap.Assets[slug] = asset
		}
	}
	return snap, nil
}

// FileLoader publishes snapshots read from a file into a MemoryStore.
type FileLoader struct {
	path  string
	store *MemoryStore
}

// NewFileLoader creates a loader for path. Both arguments are required.
func NewFileLoader(path string, store *MemoryStore) *FileLoader {
	if path == "" {
		panic("store.NewFileLoader: path is empty")
	}
	if store == nil {
		panic("store.NewFileLoader: store is nil")
	}
	return &FileLoader{path: path, store: store}
}

// Reload reads the file and publishes it. The previous snapshot stays current on error.
func (l *FileLoader) Reload() (int, error) {
	snap, err := LoadFile(l.path)
	if err != nil {
		return 0, err
	}
	l.store.Publish(snap)
	return len(snap.Positions), nil
}
