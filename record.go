package bylawsiq

import (
	"context"
	"time"
)

// AcquisitionState tracks a record's lifecycle. Transitions are monotonic:
// once Acquired or Failed a record never returns to Pending within a run.
type AcquisitionState string

// Acquisition states.
const (
	StatePending  AcquisitionState = "pending"
	StateAcquired AcquisitionState = "acquired"
	StateFailed   AcquisitionState = "failed"
)

// DiscoveryRecord is the audit-trail entry for one canonical document. It is
// created on first sighting of a canonical key and mutated as later
// sightings and acquisition attempts occur; it is never deleted within a run.
type DiscoveryRecord struct {
	// Key is the canonical identity: a normalized URL, or a content
	// fingerprint once the document bytes have been fetched.
	Key string

	// Class determines the acquisition strategy.
	Class DocumentClass

	// DiscoveryPaths is the insertion-ordered set of source pages that
	// surfaced this document.
	DiscoveryPaths []string

	// Tier and Text come from the first candidate sighted for this key.
	Tier DetectionTier
	Text string

	// Seq is the registration order within the run; ties between validated
	// candidates of the same class break in favor of the lowest Seq.
	Seq int

	State AcquisitionState

	// Reason holds the failure code when State is StateFailed, or
	// ELOWCONFIDENCE when an acquired artifact failed content validation.
	Reason string
}

// AddPath appends a source page to the record's discovery paths if not
// already present.
func (r *DiscoveryRecord) AddPath(sourcePage string) {
	if sourcePage == "" {
		return
	}
	for _, p := range r.DiscoveryPaths {
		if p == sourcePage {
			return
		}
	}
	r.DiscoveryPaths = append(r.DiscoveryPaths, sourcePage)
}

// MarkAcquired transitions the record to Acquired. Returns false if the
// record already reached a terminal state.
func (r *DiscoveryRecord) MarkAcquired() bool {
	if r.State != StatePending {
		return false
	}
	r.State = StateAcquired
	return true
}

// MarkFailed transitions the record to Failed with a reason code. Returns
// false if the record already reached a terminal state.
func (r *DiscoveryRecord) MarkFailed(reason string) bool {
	if r.State != StatePending {
		return false
	}
	r.State = StateFailed
	r.Reason = reason
	return true
}

// DedupTracker canonicalizes candidates and records every discovery path
// without letting an already-seen document be reprocessed.
type DedupTracker interface {
	// Register records a sighting of the candidate. If the canonical key is
	// new, a Pending record is created and isNew is true. Otherwise the
	// candidate's source page is added to the existing record's discovery
	// paths and isNew is false; callers must skip re-acquisition.
	Register(candidate Candidate) (rec *DiscoveryRecord, isNew bool)

	// Fingerprint upgrades a record's key to a content hash once bytes are
	// available, collapsing byte-identical documents reached through
	// different URLs. Returns the surviving record.
	Fingerprint(key string, content []byte) *DiscoveryRecord

	// Records returns all records in registration order.
	Records() []*DiscoveryRecord
}

// RunOutcome summarizes how a discovery run ended.
type RunOutcome string

// Run outcomes.
const (
	OutcomeAcquired        RunOutcome = "acquired"
	OutcomeNoDocumentFound RunOutcome = "no_document_found"
	OutcomeCancelled       RunOutcome = "cancelled"
	OutcomeBudgetExhausted RunOutcome = "budget_exhausted"
)

// Run is the persisted summary of one discovery run.
type Run struct {
	ID           string
	Jurisdiction string
	BaseDomain   string
	Outcome      RunOutcome
	VisitedURLs  []string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// RunFilter narrows FindRuns results. Nil fields match everything.
type RunFilter struct {
	BaseDomain *string
	Outcome    *RunOutcome
}

// RecordStore persists runs and their audit trails.
type RecordStore interface {
	// CreateRun persists a run summary.
	CreateRun(ctx context.Context, run *Run) error

	// CreateRecords persists the discovery records for a run.
	CreateRecords(ctx context.Context, runID string, recs []*DiscoveryRecord) error

	// FindRunByID retrieves a run. Returns ENOTFOUND if it does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRecordsByRun retrieves a run's records in registration order.
	FindRecordsByRun(ctx context.Context, runID string) ([]*DiscoveryRecord, error)
}
