package usecases

import (
	"context"
	"sync"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// Placeholder labels surfaced while a lookup is pending or has failed.
const (
	PlaceLoading     = "Loading location..."
	PlaceUnavailable = "Location unavailable"
	PlaceUnknown     = "Unknown location"
)

// placeEntry is a cache slot for one exact coordinate pair. done is closed
// once name holds the final label.
type placeEntry struct {
	done chan struct{}
	name string
}

// PlaceResolver caches reverse-geocoded place labels keyed by the exact
// coordinate pair. A coordinate pair triggers at most one outbound geocoder
// call for the resolver's lifetime: concurrent callers for the same pair
// share the in-flight lookup, and failed lookups are cached as
// "Location unavailable" and never retried. Entries are never evicted.
type PlaceResolver struct {
	geocoder ports.ReverseGeocoder

	mu      sync.Mutex
	entries map[string]*placeEntry
}

// NewPlaceResolver creates a PlaceResolver over the given geocoder.
func NewPlaceResolver(geocoder ports.ReverseGeocoder) *PlaceResolver {
	return &PlaceResolver{
		geocoder: geocoder,
		entries:  make(map[string]*placeEntry),
	}
}

// entry returns the cache slot for p, creating it when absent. The boolean
// reports whether this caller created the slot and therefore owns the fetch.
// The check-and-insert is a single critical section, so a second caller for
// the same pair can never observe a missing entry while a fetch is being
// dispatched.
func (r *PlaceResolver) entry(p domain.GeoPoint) (*placeEntry, bool) {
	key := p.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e, false
	}
	e := &placeEntry{done: make(chan struct{})}
	r.entries[key] = e
	return e, true
}

func (r *PlaceResolver) fetch(ctx context.Context, e *placeEntry, p domain.GeoPoint) {
	name, err := r.geocoder.ReverseGeocode(ctx, p.Lat, p.Lon)
	if err != nil {
		name = PlaceUnavailable
	}
	e.name = name
	close(e.done)
}

// Resolve blocks until the label for the exact coordinate pair is known, or
// the context is cancelled, in which case the placeholder is returned and the
// in-flight lookup still completes and lands in the cache.
func (r *PlaceResolver) Resolve(ctx context.Context, p domain.GeoPoint) string {
	e, owner := r.entry(p)
	if owner {
		// Detach the fetch from the caller's context so a cancelled
		// caller does not poison the shared cache entry.
		go r.fetch(context.WithoutCancel(ctx), e, p)
	}
	select {
	case <-e.done:
		return e.name
	case <-ctx.Done():
		return PlaceLoading
	}
}

// Lookup returns the cached label if resolution has completed, otherwise it
// kicks off (or joins) a background lookup and returns the loading
// placeholder immediately. It never blocks.
func (r *PlaceResolver) Lookup(p domain.GeoPoint) string {
	e, owner := r.entry(p)
	if owner {
		go r.fetch(context.Background(), e, p)
		return PlaceLoading
	}
	select {
	case <-e.done:
		return e.name
	default:
		return PlaceLoading
	}
}

// Size reports how many coordinate pairs have been looked up so far. The
// cache is unbounded; long-lived processes should watch this via metrics.
func (r *PlaceResolver) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
