package cache

import (
	"time"

	kv "github.com/patrickmn/go-cache"
)

const (
	// DefaultTTL defers to the store-level default expiration.
	DefaultTTL time.Duration = 0
	// NeverExpire pins an entry until it is explicitly deleted.
	NeverExpire time.Duration = -1

	// bulkMarker is the reserved identifier that records that a full bulk
	// fetch for a (fabric, kind) pair has been cached. VRF and attachment
	// names cannot contain '+', so the marker cannot collide with a real
	// resource identifier.
	bulkMarker = "+complete"
)

// Store is a TTL key-value store for controller resource state. It is a
// best-effort accelerator over the authoritative remote source: misses and
// deletes of absent keys are never errors. Expiry is passive; expired
// entries are swept on every read-path operation, there is no janitor
// goroutine.
type Store struct {
	kv *kv.Cache
}

// NewStore returns a store whose entries expire after defaultTTL unless a
// set call overrides it. A defaultTTL <= 0 means entries never expire by
// default.
func NewStore(defaultTTL time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = kv.NoExpiration
	}
	// cleanup interval 0 disables the janitor: expiry stays passive
	return &Store{kv: kv.New(defaultTTL, 0)}
}

func (s *Store) Get(key Key) (interface{}, bool) {
	s.kv.DeleteExpired()
	return s.kv.Get(key.String())
}

func (s *Store) Set(key Key, value interface{}, ttl time.Duration) {
	s.kv.Set(key.String(), value, normalizeTTL(ttl))
}

// Delete removes the entry if present. Deleting an absent key is a no-op.
func (s *Store) Delete(key Key) {
	s.kv.Delete(key.String())
}

// GetBulk returns every live entry for the (fabric, kind) pair keyed by
// identifier. The completeness marker is not part of the result.
func (s *Store) GetBulk(fabric string, kind Kind) map[string]interface{} {
	s.kv.DeleteExpired()

	result := map[string]interface{}{}
	for k, item := range s.kv.Items() {
		key := NewKeyFromString(k)
		if key.Kind != kind || key.Fabric != fabric || key.Identifier == bulkMarker {
			continue
		}
		result[key.Identifier] = item.Object
	}
	return result
}

// SetBulk writes one entry per identifier, all with the same TTL, and
// records a completeness marker so that HasCompleteSet reports true until
// the marker expires or the fabric is invalidated.
func (s *Store) SetBulk(fabric string, kind Kind, data map[string]interface{}, ttl time.Duration) {
	d := normalizeTTL(ttl)
	for identifier, value := range data {
		s.kv.Set(NewKey(kind, fabric, identifier).String(), value, d)
	}
	s.kv.Set(NewKey(kind, fabric, bulkMarker).String(), true, d)
}

// HasCompleteSet reports whether a full bulk fetch for (fabric, kind) is
// still cached. Individual sets and deletes after the bulk fetch keep the
// set complete; only marker expiry or invalidation clears it.
func (s *Store) HasCompleteSet(fabric string, kind Kind) bool {
	s.kv.DeleteExpired()
	_, ok := s.kv.Get(NewKey(kind, fabric, bulkMarker).String())
	return ok
}

// InvalidateFabric removes every entry for the fabric. With no kinds given
// all kinds are removed, otherwise only the listed ones.
func (s *Store) InvalidateFabric(fabric string, kinds ...Kind) {
	for k := range s.kv.Items() {
		key := NewKeyFromString(k)
		if key.Fabric != fabric {
			continue
		}
		if len(kinds) == 0 {
			s.kv.Delete(k)
			continue
		}
		for _, kind := range kinds {
			if key.Kind == kind {
				s.kv.Delete(k)
				break
			}
		}
	}
}

func (s *Store) Clear() {
	s.kv.Flush()
}

// Items dumps the live entries of the store. Used by the metrics collector.
func (s *Store) Items() map[string]kv.Item {
	s.kv.DeleteExpired()
	return s.kv.Items()
}

func normalizeTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl < 0:
		return kv.NoExpiration
	case ttl == 0:
		return kv.DefaultExpiration
	default:
		return ttl
	}
}
