package bylawsiq

import "context"

// Acquisition is the product of one platform acquisition.
type Acquisition struct {
	// Data holds the acquired document bytes.
	Data []byte

	// Flagged is true when the content failed confidence validation and
	// should be kept but marked for review.
	Flagged bool

	// ContentHTML is the extracted main content of the platform page,
	// used to produce the Markdown sidecar. May be empty.
	ContentHTML string
}

// PlatformAcquirer turns a platform-hosted candidate into document bytes by
// driving a browser session against the hosting platform: warming the
// session up, detecting interstitial challenges, preferring the platform's
// own download affordance, and falling back to rendering the page.
type PlatformAcquirer interface {
	// Acquire produces the document for a platform-hosted candidate.
	// Returns ECAPTCHA when the platform challenge persists across a
	// session retry, and ENODOWNLOAD when no acquisition path produced
	// bytes.
	Acquire(ctx context.Context, candidate Candidate, district string) (*Acquisition, error)
}
