package filestore

import (
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set"
)

// MirrorRegistry tracks the base URLs artifacts can be fetched from. The
// configured URLs come first and keep their order; mirrors registered at
// runtime are appended in registration order and deduplicated.
type MirrorRegistry struct {
	mu      sync.RWMutex
	ordered []string
	known   mapset.Set
}

// NewMirrorRegistry seeds a registry with the configured base URLs.
func NewMirrorRegistry(baseURLs []string) *MirrorRegistry {
	r := &MirrorRegistry{
		known: mapset.NewSet(),
	}
	for _, base := range baseURLs {
		r.Register(base)
	}
	return r
}

// Register adds a base URL unless it is already known, reporting whether it
// was added. Trailing slashes are normalized away so equivalent spellings
// collapse to one entry.
func (r *MirrorRegistry) Register(baseURL string) bool {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return false
	}
	if !r.known.Add(base) {
		return false
	}
	r.mu.Lock()
	r.ordered = append(r.ordered, base)
	r.mu.Unlock()
	return true
}

// Contains reports whether the base URL is registered.
func (r *MirrorRegistry) Contains(baseURL string) bool {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return r.known.Contains(base)
}

// Len returns the number of registered base URLs.
func (r *MirrorRegistry) Len() int {
	return r.known.Cardinality()
}

// BaseURLs returns a copy of the registered base URLs in order.
func (r *MirrorRegistry) BaseURLs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	urls := make([]string, len(r.ordered))
	copy(urls, r.ordered)
	return urls
}
