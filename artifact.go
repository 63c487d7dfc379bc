package bylawsiq

import "context"

// Artifact is an acquired document payload reference plus class-specific
// metadata. Artifacts are owned by the run and handed to the external
// text-extraction collaborator as opaque blobs plus a local reference.
type Artifact struct {
	// Key is the canonical key of the DiscoveryRecord this artifact
	// satisfies.
	Key string

	// Class is the acquisition path that produced the artifact; only
	// DirectFile and PlatformHosted artifacts exist.
	Class DocumentClass

	// Path is the local storage reference.
	Path string

	ByteLen int
	MIME    string

	// Flagged marks an artifact that failed content validation but was
	// surfaced anyway for the caller to judge.
	Flagged bool

	// SidecarPath points at the markdown rendition of platform-hosted
	// content, when one was produced.
	SidecarPath string
}

// OverwritePolicy controls what happens when a differently-sourced artifact
// would land on an existing file name.
type OverwritePolicy int

// Overwrite policies.
const (
	// OverwriteNever fails with ECONFLICT when the target exists with
	// different content.
	OverwriteNever OverwritePolicy = iota

	// OverwriteAlways replaces the existing file.
	OverwriteAlways
)

// ArtifactStore persists acquired documents under deterministic names keyed
// by jurisdiction and document class.
type ArtifactStore interface {
	// Save writes the document bytes and returns the storage path. The name
	// is derived as {district-or-domain}_{class}.{ext}; saving over an
	// existing differently-sourced file follows the store's overwrite
	// policy.
	Save(ctx context.Context, district string, class DocumentClass, ext string, data []byte) (path string, err error)

	// SaveSidecar writes a text rendition next to an artifact.
	SaveSidecar(ctx context.Context, artifactPath string, markdown string) (path string, err error)
}
