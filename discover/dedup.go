// Package discover orchestrates bylaws discovery: driving site-search
// strategies, expanding nested pages, deduplicating sightings, and acquiring
// the documents they surface.
package discover

import (
	"fmt"
	"sync"

	"github.com/bylawsiq/bylawsiq"
	"github.com/cespare/xxhash/v2"
)

// Ensure Tracker implements bylawsiq.DedupTracker at compile time.
var _ bylawsiq.DedupTracker = (*Tracker)(nil)

// Tracker canonicalizes candidate sightings into one record per document.
// The first sighting of a canonical key creates a Pending record; later
// sightings only extend the record's discovery paths. Tracker is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	byKey   map[string]*bylawsiq.DiscoveryRecord
	ordered []*bylawsiq.DiscoveryRecord
	seq     int
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byKey: make(map[string]*bylawsiq.DiscoveryRecord),
	}
}

// Register records a sighting of the candidate under its normalized URL.
func (t *Tracker) Register(c bylawsiq.Candidate) (*bylawsiq.DiscoveryRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.byKey[c.NormalizedURL]; ok {
		rec.AddPath(c.SourcePage)
		return rec, false
	}

	rec := &bylawsiq.DiscoveryRecord{
		Key:   c.NormalizedURL,
		Class: bylawsiq.Classify(c),
		Tier:  c.Tier,
		Text:  c.Text,
		Seq:   t.seq,
		State: bylawsiq.StatePending,
	}
	rec.AddPath(c.SourcePage)
	t.seq++
	t.byKey[c.NormalizedURL] = rec
	t.ordered = append(t.ordered, rec)
	return rec, true
}

// Fingerprint upgrades the record keyed by key to a content-hash key. When
// another record already owns the same hash the two sightings were the same
// document reached through different URLs: their discovery paths are merged
// into the earlier record and the newer one is dropped from the trail.
func (t *Tracker) Fingerprint(key string, content []byte) *bylawsiq.DiscoveryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.byKey[key]
	if !ok {
		return nil
	}

	fkey := fmt.Sprintf("xxh64:%016x", xxhash.Sum64(content))
	if rec.Key == fkey {
		return rec
	}

	if survivor, ok := t.byKey[fkey]; ok {
		for _, p := range rec.DiscoveryPaths {
			survivor.AddPath(p)
		}
		delete(t.byKey, key)
		t.remove(rec)
		return survivor
	}

	delete(t.byKey, key)
	rec.Key = fkey
	t.byKey[fkey] = rec
	return rec
}

// Records returns all records in registration order.
func (t *Tracker) Records() []*bylawsiq.DiscoveryRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*bylawsiq.DiscoveryRecord, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// remove drops a merged-away record from the ordered trail.
// Must be called with mu held.
func (t *Tracker) remove(rec *bylawsiq.DiscoveryRecord) {
	for i, r := range t.ordered {
		if r == rec {
			t.ordered = append(t.ordered[:i], t.ordered[i+1:]...)
			return
		}
	}
}
