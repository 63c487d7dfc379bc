// Package bloom provides the crawl frontier's visited-page set using Bloom
// filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// VisitedSet tracks which page URLs a crawl has already expanded. A false
// positive skips a page that was never visited; for a best-effort bounded
// crawl that trade is acceptable, and the rate is configurable.
type VisitedSet struct {
	f *bloom.BloomFilter
}

// NewVisitedSet creates a set sized for n expected pages with the given
// false positive rate.
func NewVisitedSet(n uint, fpRate float64) *VisitedSet {
	return &VisitedSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen marks the URL visited and reports whether it had been visited before.
func (s *VisitedSet) Seen(url string) bool {
	return s.f.TestOrAddString(url)
}

// Test reports whether the URL might have been visited, without marking it.
// False positives are possible; false negatives are not.
func (s *VisitedSet) Test(url string) bool {
	return s.f.TestString(url)
}

// EstimatedCount returns the approximate number of visited pages.
func (s *VisitedSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
