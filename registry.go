package toggle

import (
	"reflect"
	"sync"
)

// registryKey identifies a cached document by config type and codec.
type registryKey struct {
	typ         reflect.Type
	contentType string
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// Use returns the shared Document for T and codec, building it on first use.
// Documents are keyed by T and the codec's content type, so two codecs with
// the same content type share one entry.
func Use[T any](codec Codec) (*Document[T], error) {
	typ := reflect.TypeFor[T]()
	key := registryKey{typ: typ, contentType: codec.ContentType()}

	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached.(*Document[T]), nil
	}
	registryMu.RUnlock()

	registryMu.Lock()
	defer registryMu.Unlock()

	// Another caller may have built it while we waited.
	if cached, ok := registry[key]; ok {
		return cached.(*Document[T]), nil
	}

	doc, err := NewDocument[T](codec)
	if err != nil {
		return nil, err
	}

	registry[key] = doc
	return doc, nil
}

// Reset drops every cached document. Tests call it between cases.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]any)
}
