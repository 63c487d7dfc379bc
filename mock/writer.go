package mock

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
)

var _ bylawsiq.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of bylawsiq.ArtifactStore.
type ArtifactStore struct {
	SaveFn        func(ctx context.Context, district string, class bylawsiq.DocumentClass, ext string, data []byte) (string, error)
	SaveSidecarFn func(ctx context.Context, artifactPath, markdown string) (string, error)
}

func (s *ArtifactStore) Save(ctx context.Context, district string, class bylawsiq.DocumentClass, ext string, data []byte) (string, error) {
	return s.SaveFn(ctx, district, class, ext, data)
}

func (s *ArtifactStore) SaveSidecar(ctx context.Context, artifactPath, markdown string) (string, error) {
	return s.SaveSidecarFn(ctx, artifactPath, markdown)
}
