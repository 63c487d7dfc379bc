package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bylawsiq/bylawsiq"
)

// Compile-time interface verification.
var _ bylawsiq.RecordStore = (*RecordService)(nil)

// RecordService implements bylawsiq.RecordStore using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// CreateRun persists a run summary.
func (s *RecordService) CreateRun(ctx context.Context, run *bylawsiq.Run) error {
	if run.ID == "" {
		return bylawsiq.Errorf(bylawsiq.EINVALID, "run ID required")
	}

	visited, err := json.Marshal(run.VisitedURLs)
	if err != nil {
		return fmt.Errorf("failed to encode visited URLs: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, jurisdiction, base_domain, outcome, visited_urls, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Jurisdiction, run.BaseDomain, string(run.Outcome), string(visited),
		run.StartedAt.Format(time.RFC3339), run.FinishedAt.Format(time.RFC3339))

	return err
}

// CreateRecords persists the discovery records for a run.
func (s *RecordService) CreateRecords(ctx context.Context, runID string, recs []*bylawsiq.DiscoveryRecord) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range recs {
		paths, err := json.Marshal(rec.DiscoveryPaths)
		if err != nil {
			return fmt.Errorf("failed to encode discovery paths: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (run_id, seq, key, class, discovery_paths, tier, text, state, reason)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, rec.Seq, rec.Key, int(rec.Class), string(paths), int(rec.Tier), rec.Text,
			string(rec.State), rec.Reason); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RecordService) FindRunByID(ctx context.Context, id string) (*bylawsiq.Run, error) {
	var run bylawsiq.Run
	var outcome, visited, startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, jurisdiction, base_domain, outcome, visited_urls, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Jurisdiction, &run.BaseDomain, &outcome, &visited, &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, bylawsiq.Errorf(bylawsiq.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	run.Outcome = bylawsiq.RunOutcome(outcome)
	if err := json.Unmarshal([]byte(visited), &run.VisitedURLs); err != nil {
		return nil, fmt.Errorf("failed to decode visited URLs: %w", err)
	}
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RecordService) FindRuns(ctx context.Context, filter bylawsiq.RunFilter) ([]*bylawsiq.Run, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := filter.BaseDomain; v != nil {
		where, args = append(where, "base_domain = ?"), append(args, *v)
	}
	if v := filter.Outcome; v != nil {
		where, args = append(where, "outcome = ?"), append(args, string(*v))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, jurisdiction, base_domain, outcome, visited_urls, started_at, finished_at
		FROM runs
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY started_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*bylawsiq.Run
	for rows.Next() {
		var run bylawsiq.Run
		var outcome, visited, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Jurisdiction, &run.BaseDomain, &outcome, &visited, &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		run.Outcome = bylawsiq.RunOutcome(outcome)
		if err := json.Unmarshal([]byte(visited), &run.VisitedURLs); err != nil {
			return nil, fmt.Errorf("failed to decode visited URLs: %w", err)
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindRecordsByRun retrieves a run's records in registration order.
func (s *RecordService) FindRecordsByRun(ctx context.Context, runID string) ([]*bylawsiq.DiscoveryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, key, class, discovery_paths, tier, text, state, reason
		FROM records
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*bylawsiq.DiscoveryRecord
	for rows.Next() {
		var rec bylawsiq.DiscoveryRecord
		var class, tier int
		var paths, state string

		if err := rows.Scan(&rec.Seq, &rec.Key, &class, &paths, &tier, &rec.Text, &state, &rec.Reason); err != nil {
			return nil, err
		}

		rec.Class = bylawsiq.DocumentClass(class)
		rec.Tier = bylawsiq.DetectionTier(tier)
		rec.State = bylawsiq.AcquisitionState(state)
		if err := json.Unmarshal([]byte(paths), &rec.DiscoveryPaths); err != nil {
			return nil, fmt.Errorf("failed to decode discovery paths: %w", err)
		}

		recs = append(recs, &rec)
	}

	return recs, rows.Err()
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
