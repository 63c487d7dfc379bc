package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bylawsiq/bylawsiq"
	main "github.com/bylawsiq/bylawsiq/cmd/bylawsiq"
	"github.com/bylawsiq/bylawsiq/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the audit trail in registration order", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			FindRunByIDFn: func(_ context.Context, id string) (*bylawsiq.Run, error) {
				return &bylawsiq.Run{
					ID:           id,
					Jurisdiction: "Lincoln",
					BaseDomain:   "lincolntown.org",
					Outcome:      bylawsiq.OutcomeAcquired,
				}, nil
			},
			FindRecordsByRunFn: func(_ context.Context, runID string) ([]*bylawsiq.DiscoveryRecord, error) {
				return []*bylawsiq.DiscoveryRecord{
					{
						Key:            "xxh64:00000000deadbeef",
						Class:          bylawsiq.ClassDirectFile,
						DiscoveryPaths: []string{"https://lincolntown.org/boards/planning"},
						Text:           "Zoning Bylaw",
						Seq:            0,
						State:          bylawsiq.StateAcquired,
					},
					{
						Key:    "https://ecode360.com/FA1234",
						Class:  bylawsiq.ClassPlatformHosted,
						Seq:    1,
						State:  bylawsiq.StateFailed,
						Reason: bylawsiq.ECAPTCHA,
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Records: records,
		}

		cmd := &main.RecordsCmd{RunID: "run-1"}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Run run-1: Lincoln on lincolntown.org, acquired (2 documents)")
		assert.Contains(t, output, "1. [pdf] acquired xxh64:00000000deadbeef")
		assert.Contains(t, output, `"Zoning Bylaw"`)
		assert.Contains(t, output, "found via https://lincolntown.org/boards/planning")
		assert.Contains(t, output, "2. [ecode] failed (captcha) https://ecode360.com/FA1234")
		assert.Empty(t, stderr.String())
	})

	t.Run("returns error when run not found", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			FindRunByIDFn: func(_ context.Context, id string) (*bylawsiq.Run, error) {
				return nil, bylawsiq.Errorf(bylawsiq.ENOTFOUND, "run not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Records: records,
		}

		cmd := &main.RecordsCmd{RunID: "missing"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), `run "missing" not found`)
		assert.Contains(t, stderr.String(), "bylawsiq runs")
		assert.Empty(t, stdout.String())
	})

	t.Run("returns error when record lookup fails", func(t *testing.T) {
		t.Parallel()

		records := &mock.RecordStore{
			FindRunByIDFn: func(_ context.Context, id string) (*bylawsiq.Run, error) {
				return &bylawsiq.Run{ID: id}, nil
			},
			FindRecordsByRunFn: func(_ context.Context, runID string) ([]*bylawsiq.DiscoveryRecord, error) {
				return nil, bylawsiq.Errorf(bylawsiq.EINTERNAL, "database error")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Records: records,
		}

		cmd := &main.RecordsCmd{RunID: "run-1"}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
		assert.Empty(t, stdout.String())
	})
}
