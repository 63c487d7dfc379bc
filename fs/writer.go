// Package fs provides file-based storage for acquired documents.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bylawsiq/bylawsiq"
)

// ArtifactName builds the artifact file name for a district and document
// class. Example: ("Lincoln", ClassPlatformHosted, "pdf") →
// Lincoln_Zoning_ecode.pdf.
func ArtifactName(district string, class bylawsiq.DocumentClass, ext string) string {
	base := sanitize(district) + "_Zoning"
	switch class {
	case bylawsiq.ClassPlatformHosted:
		base += "_ecode"
	case bylawsiq.ClassNestedPage:
		base += "_page"
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}

// sanitize makes a district name filesystem-safe.
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "_",
		"\\", "_",
		":", "_",
	)
	return replacer.Replace(name)
}

// Ensure Store implements bylawsiq.ArtifactStore at compile time.
var _ bylawsiq.ArtifactStore = (*Store)(nil)

// Store writes acquired documents into a directory, one file per district
// and class, named so a directory listing reads as an inventory.
type Store struct {
	baseDir string
	policy  bylawsiq.OverwritePolicy
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithOverwritePolicy controls behavior when the artifact file already
// exists. Defaults to OverwriteNever.
func WithOverwritePolicy(policy bylawsiq.OverwritePolicy) StoreOption {
	return func(s *Store) {
		s.policy = policy
	}
}

// NewStore creates a Store that writes into baseDir.
func NewStore(baseDir string, opts ...StoreOption) *Store {
	s := &Store{baseDir: baseDir, policy: bylawsiq.OverwriteNever}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes the document bytes and returns the artifact path. Under
// OverwriteNever an existing artifact returns ECONFLICT.
func (s *Store) Save(ctx context.Context, district string, class bylawsiq.DocumentClass, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if district == "" {
		return "", bylawsiq.Errorf(bylawsiq.EINVALID, "district required")
	}
	if len(data) == 0 {
		return "", bylawsiq.Errorf(bylawsiq.EINVALID, "refusing to save empty artifact")
	}

	fullPath := filepath.Join(s.baseDir, ArtifactName(district, class, ext))

	if s.policy == bylawsiq.OverwriteNever {
		if _, err := os.Stat(fullPath); err == nil {
			return "", bylawsiq.Errorf(bylawsiq.ECONFLICT, "artifact already exists: %s", fullPath)
		}
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", err
	}
	return fullPath, nil
}

// SaveSidecar writes the Markdown rendition next to an artifact and returns
// its path.
func (s *Store) SaveSidecar(ctx context.Context, artifactPath, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if markdown == "" {
		return "", bylawsiq.Errorf(bylawsiq.EINVALID, "refusing to save empty sidecar")
	}

	ext := filepath.Ext(artifactPath)
	sidecarPath := strings.TrimSuffix(artifactPath, ext) + ".md"

	if err := os.WriteFile(sidecarPath, []byte(markdown), 0644); err != nil {
		return "", err
	}
	return sidecarPath, nil
}
