package mock

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
)

var _ bylawsiq.Detector = (*Detector)(nil)

// Detector is a mock implementation of bylawsiq.Detector.
type Detector struct {
	DetectFn func(ctx context.Context, page bylawsiq.Page, vocab bylawsiq.Vocabulary) []bylawsiq.Candidate
}

func (d *Detector) Detect(ctx context.Context, page bylawsiq.Page, vocab bylawsiq.Vocabulary) []bylawsiq.Candidate {
	return d.DetectFn(ctx, page, vocab)
}
