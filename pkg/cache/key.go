package cache

import "strings"

// Kind identifies the resource family an entry belongs to. Using a named
// type instead of raw strings keeps call sites from inventing ad-hoc tags.
type Kind string

const (
	// KindVRF caches VRF records.
	KindVRF Kind = "vrf"
	// KindVRFAttachment caches VRF switch-attachment records.
	KindVRFAttachment Kind = "vrf_attachment"
	// KindSwitch caches fabric inventory lookups (switch ip -> serial).
	KindSwitch Kind = "switch"
)

// The format of the keys in the store is
//
//	<kind>:<fabric>:<identifier>
//
// Fabric is the partition the bulk operations and fabric invalidation work
// on; identifier is the resource name within the fabric.
type Key struct {
	Kind       Kind
	Fabric     string
	Identifier string
}

func NewKey(kind Kind, fabric, identifier string) Key {
	return Key{
		Kind:       kind,
		Fabric:     fabric,
		Identifier: identifier,
	}
}

// NewKeyFromString parses the "<kind>:<fabric>:<identifier>" form. The
// identifier keeps any ':' characters of its own.
func NewKeyFromString(key string) Key {
	values := strings.SplitN(key, ":", 3)
	if len(values) < 3 {
		return Key{}
	}
	return Key{
		Kind:       Kind(values[0]),
		Fabric:     values[1],
		Identifier: values[2],
	}
}

func (k Key) String() string {
	return strings.Join([]string{string(k.Kind), k.Fabric, k.Identifier}, ":")
}
