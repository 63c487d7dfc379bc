package mock

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
)

var _ bylawsiq.FileFetcher = (*FileFetcher)(nil)

// FileFetcher is a mock implementation of bylawsiq.FileFetcher.
type FileFetcher struct {
	FetchFileFn func(ctx context.Context, url string) ([]byte, string, error)
}

func (f *FileFetcher) FetchFile(ctx context.Context, url string) ([]byte, string, error) {
	return f.FetchFileFn(ctx, url)
}

var _ bylawsiq.PlatformAcquirer = (*PlatformAcquirer)(nil)

// PlatformAcquirer is a mock implementation of bylawsiq.PlatformAcquirer.
type PlatformAcquirer struct {
	AcquireFn func(ctx context.Context, candidate bylawsiq.Candidate, district string) (*bylawsiq.Acquisition, error)
}

func (a *PlatformAcquirer) Acquire(ctx context.Context, candidate bylawsiq.Candidate, district string) (*bylawsiq.Acquisition, error) {
	return a.AcquireFn(ctx, candidate, district)
}

var _ bylawsiq.VersionSelector = (*VersionSelector)(nil)

// VersionSelector is a mock implementation of bylawsiq.VersionSelector.
type VersionSelector struct {
	SelectLatestFn func(ctx context.Context, candidates []bylawsiq.Candidate) (int, error)
}

func (v *VersionSelector) SelectLatest(ctx context.Context, candidates []bylawsiq.Candidate) (int, error) {
	return v.SelectLatestFn(ctx, candidates)
}
