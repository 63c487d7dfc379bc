package mock

import (
	"context"

	"github.com/bylawsiq/bylawsiq"
)

var _ bylawsiq.DedupTracker = (*DedupTracker)(nil)

// DedupTracker is a mock implementation of bylawsiq.DedupTracker.
type DedupTracker struct {
	RegisterFn    func(c bylawsiq.Candidate) (*bylawsiq.DiscoveryRecord, bool)
	FingerprintFn func(key string, content []byte) *bylawsiq.DiscoveryRecord
	RecordsFn     func() []*bylawsiq.DiscoveryRecord
}

func (t *DedupTracker) Register(c bylawsiq.Candidate) (*bylawsiq.DiscoveryRecord, bool) {
	return t.RegisterFn(c)
}

func (t *DedupTracker) Fingerprint(key string, content []byte) *bylawsiq.DiscoveryRecord {
	return t.FingerprintFn(key, content)
}

func (t *DedupTracker) Records() []*bylawsiq.DiscoveryRecord {
	return t.RecordsFn()
}

var _ bylawsiq.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of bylawsiq.RecordStore.
type RecordStore struct {
	CreateRunFn        func(ctx context.Context, run *bylawsiq.Run) error
	CreateRecordsFn    func(ctx context.Context, runID string, records []*bylawsiq.DiscoveryRecord) error
	FindRunByIDFn      func(ctx context.Context, id string) (*bylawsiq.Run, error)
	FindRunsFn         func(ctx context.Context, filter bylawsiq.RunFilter) ([]*bylawsiq.Run, error)
	FindRecordsByRunFn func(ctx context.Context, runID string) ([]*bylawsiq.DiscoveryRecord, error)
}

func (s *RecordStore) CreateRun(ctx context.Context, run *bylawsiq.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RecordStore) CreateRecords(ctx context.Context, runID string, records []*bylawsiq.DiscoveryRecord) error {
	return s.CreateRecordsFn(ctx, runID, records)
}

func (s *RecordStore) FindRunByID(ctx context.Context, id string) (*bylawsiq.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RecordStore) FindRuns(ctx context.Context, filter bylawsiq.RunFilter) ([]*bylawsiq.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RecordStore) FindRecordsByRun(ctx context.Context, runID string) ([]*bylawsiq.DiscoveryRecord, error) {
	return s.FindRecordsByRunFn(ctx, runID)
}
