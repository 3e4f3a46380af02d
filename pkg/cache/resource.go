package cache

import "time"

// Resource curries a Manager with one resource kind and a value type, so
// API clients never spell out kinds or type-assert cached values. A value
// of the wrong dynamic type in the store is treated as a miss.
type Resource[T any] struct {
	manager *Manager
	kind    Kind
}

func NewResource[T any](manager *Manager, kind Kind) *Resource[T] {
	return &Resource[T]{
		manager: manager,
		kind:    kind,
	}
}

// GetCached returns the cached resource or fetches it on a miss.
func (r *Resource[T]) GetCached(fabric, identifier string, fetch func() (T, bool, error), ttl time.Duration) (T, bool, error) {
	var zero T

	value, found, err := r.manager.GetOrFetch(
		NewKey(r.kind, fabric, identifier),
		func() (interface{}, bool, error) { return fetch() },
		ttl,
	)
	if err != nil || !found {
		return zero, false, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

// GetAllCached returns every resource of this kind in the fabric, from
// cache when the bulk set is complete, fetching otherwise.
func (r *Resource[T]) GetAllCached(fabric string, fetch func() (map[string]T, error), ttl time.Duration) (map[string]T, error) {
	data, err := r.manager.GetBulkOrFetch(fabric, r.kind, func() (map[string]interface{}, error) {
		typed, err := fetch()
		if err != nil {
			return nil, err
		}
		untyped := make(map[string]interface{}, len(typed))
		for identifier, value := range typed {
			untyped[identifier] = value
		}
		return untyped, nil
	}, ttl)
	if err != nil {
		return nil, err
	}

	result := make(map[string]T, len(data))
	for identifier, value := range data {
		if typed, ok := value.(T); ok {
			result[identifier] = typed
		}
	}
	return result, nil
}

// ExistsCached reports existence along with the current data when present.
func (r *Resource[T]) ExistsCached(fabric, identifier string, fetch func() (T, bool, error)) (bool, T, error) {
	value, found, err := r.GetCached(fabric, identifier, fetch, DefaultTTL)
	return found, value, err
}

// UpdateCacheAfterCreate writes the created resource through to the cache.
func (r *Resource[T]) UpdateCacheAfterCreate(fabric, identifier string, data T) {
	r.manager.UpdateCache(NewKey(r.kind, fabric, identifier), data, DefaultTTL)
}

// UpdateCacheAfterUpdate writes the updated resource through to the cache.
func (r *Resource[T]) UpdateCacheAfterUpdate(fabric, identifier string, data T) {
	r.manager.UpdateCache(NewKey(r.kind, fabric, identifier), data, DefaultTTL)
}

// RemoveFromCacheAfterDelete drops the resource from the cache.
func (r *Resource[T]) RemoveFromCacheAfterDelete(fabric, identifier string) {
	r.manager.RemoveFromCache(NewKey(r.kind, fabric, identifier))
}

// InvalidateFabricCache drops every entry of this kind for the fabric.
func (r *Resource[T]) InvalidateFabricCache(fabric string) {
	r.manager.InvalidateFabric(fabric, r.kind)
}
