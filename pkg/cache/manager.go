package cache

import "time"

// FetchFunc retrieves a single resource from the authoritative source.
// found is false when the resource does not exist; absent results are not
// cached.
type FetchFunc func() (interface{}, bool, error)

// BulkFetchFunc retrieves every resource of one kind in a fabric, keyed by
// identifier.
type BulkFetchFunc func() (map[string]interface{}, error)

// Manager coordinates get-or-fetch semantics on top of a Store. It performs
// at most one fetch per miss but provides no single-flight guarantee across
// concurrent callers: the cache is a local optimization, not a consistency
// boundary.
type Manager struct {
	store      *Store
	defaultTTL time.Duration
}

// NewManager wraps an injected store. The store's lifetime is the caller's
// concern; the usual embedding creates one per batch run and discards it at
// process exit.
func NewManager(store *Store, defaultTTL time.Duration) *Manager {
	return &Manager{
		store:      store,
		defaultTTL: defaultTTL,
	}
}

// GetOrFetch returns the cached value for key, or calls fetch exactly once
// on a miss. Fetch errors propagate and nothing is cached on failure.
func (m *Manager) GetOrFetch(key Key, fetch FetchFunc, ttl time.Duration) (interface{}, bool, error) {
	if value, ok := m.store.Get(key); ok {
		return value, true, nil
	}

	value, found, err := fetch()
	if err != nil {
		return nil, false, err
	}
	if found {
		m.store.Set(key, value, m.resolveTTL(ttl))
	}
	return value, found, nil
}

// GetBulkOrFetch returns the cached mapping for (fabric, kind) when a
// complete bulk fetch is still live, otherwise calls fetch once and caches
// the full result together with the completeness marker.
func (m *Manager) GetBulkOrFetch(fabric string, kind Kind, fetch BulkFetchFunc, ttl time.Duration) (map[string]interface{}, error) {
	if m.store.HasCompleteSet(fabric, kind) {
		return m.store.GetBulk(fabric, kind), nil
	}

	data, err := fetch()
	if err != nil {
		return nil, err
	}
	m.store.SetBulk(fabric, kind, data, m.resolveTTL(ttl))
	return data, nil
}

// UpdateCache writes through after a successful create or update.
func (m *Manager) UpdateCache(key Key, value interface{}, ttl time.Duration) {
	m.store.Set(key, value, m.resolveTTL(ttl))
}

// RemoveFromCache removes an entry after a successful delete.
func (m *Manager) RemoveFromCache(key Key) {
	m.store.Delete(key)
}

func (m *Manager) InvalidateFabric(fabric string, kinds ...Kind) {
	m.store.InvalidateFabric(fabric, kinds...)
}

func (m *Manager) ClearCache() {
	m.store.Clear()
}

func (m *Manager) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == DefaultTTL {
		return m.defaultTTL
	}
	return ttl
}
