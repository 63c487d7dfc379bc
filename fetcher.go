package bylawsiq

import "context"

// FileFetcher downloads directly-linked documents over plain HTTP.
// Implementations send realistic client headers and retry transient
// failures once.
type FileFetcher interface {
	// FetchFile downloads the URL and returns the raw bytes and the
	// response content type.
	FetchFile(ctx context.Context, url string) (data []byte, mime string, err error)
}

// VersionSelector chooses the most recent document among several direct-file
// candidates, typically by reading dates and edition markers out of link
// titles. Implementations may call an external model.
type VersionSelector interface {
	// SelectLatest returns the index of the most recent candidate.
	// Returns EINVALID when it cannot decide; callers fall back to
	// first-registered order.
	SelectLatest(ctx context.Context, candidates []Candidate) (int, error)
}
