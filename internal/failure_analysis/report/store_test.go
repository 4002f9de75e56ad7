package report

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Metadata: domain.Metadata{GenerationDate: fixedNow, TotalFailures: 3, UniqueGroups: 1},
		Groups: []domain.GroupSummary{{
			ID:               1,
			Title:            "Timeout for selector: <button>",
			FailureCount:     3,
			Percentage:       100,
			StatusCounts:     map[string]int{"failed": 3, "broken": 0},
			FingerprintWhat:  "Timeout for selector: <button>",
			FingerprintWhere: "checkout.spec.ts:42:10",
			Epics:            []string{},
			Features:         []string{},
			Example:          domain.Example{TestName: "t", Message: "m", Trace: "tr"},
		}},
	}
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "failure_analysis_report.json", ArtifactName("failure_analysis_report.html"))
	assert.Equal(t, "weekly.json", ArtifactName("out/weekly.html"))
	assert.Equal(t, "noext.json", ArtifactName("noext"))
	assert.Equal(t, DefaultArtifactName, ArtifactName(""))
}

func TestStoreSaveAndLoad(t *testing.T) {
	s := NewStore(t.TempDir(), "report.json")

	path, err := s.Save(sampleReport(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, "2026-10-14_09-30-00", "report.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// no HTML escaping of angle brackets
	assert.Contains(t, string(raw), "Timeout for selector: <button>")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "metadata")
	assert.Contains(t, doc, "groups")

	got, err := s.Load("2026-10-14_09-30-00")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Metadata.TotalFailures)
	require.Len(t, got.Groups, 1)
	assert.Equal(t, "checkout.spec.ts:42:10", got.Groups[0].FingerprintWhere)
	assert.True(t, fixedNow.Equal(got.Metadata.GenerationDate))
}

func TestStoreSaveNeverOverwrites(t *testing.T) {
	s := NewStore(t.TempDir(), "report.json")

	first, err := s.Save(sampleReport(), fixedNow)
	require.NoError(t, err)
	second, err := s.Save(sampleReport(), fixedNow)
	require.NoError(t, err)
	third, err := s.Save(sampleReport(), fixedNow)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(s.Dir, "2026-10-14_09-30-00_2", "report.json"), second)
	assert.Equal(t, filepath.Join(s.Dir, "2026-10-14_09-30-00_3", "report.json"), third)

	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-14_09-30-00_3", "2026-10-14_09-30-00_2", "2026-10-14_09-30-00"}, ids)
}

func TestStoreSavePersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "history"), "report.json")
	_, err := s.Save(sampleReport(), fixedNow)
	require.Error(t, err)

	var perr *domain.PersistenceError
	assert.True(t, errors.As(err, &perr))
}

func TestStoreSaveFailureLeavesNoRunDir(t *testing.T) {
	t.Run("encode fails", func(t *testing.T) {
		s := NewStore(t.TempDir(), "report.json")
		rep := sampleReport()
		rep.Groups[0].Percentage = math.NaN()

		_, err := s.Save(rep, fixedNow)
		var perr *domain.PersistenceError
		require.True(t, errors.As(err, &perr))

		assert.NoDirExists(t, filepath.Join(s.Dir, "2026-10-14_09-30-00"))
		ids, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("write fails", func(t *testing.T) {
		// the artifact's parent dir is never created, so the temp file cannot be
		s := NewStore(t.TempDir(), filepath.Join("missing", "report.json"))

		_, err := s.Save(sampleReport(), fixedNow)
		var perr *domain.PersistenceError
		require.True(t, errors.As(err, &perr))

		ids, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, ids)

		// the next run reuses the un-suffixed timestamp
		s.FileName = "report.json"
		path, err := s.Save(sampleReport(), fixedNow)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Dir, "2026-10-14_09-30-00", "report.json"), path)
	})
}

func TestStoreList(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		s := NewStore(filepath.Join(t.TempDir(), "nope"), "")
		ids, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("newest first, skips junk", func(t *testing.T) {
		s := NewStore(t.TempDir(), "")
		for _, name := range []string{"2026-10-01_08-00-00", "2026-10-13_23-59-59", "2025-01-01_00-00-00", "not-a-report"} {
			require.NoError(t, os.Mkdir(filepath.Join(s.Dir, name), 0o755))
		}
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "2026-10-14_00-00-00"), nil, 0o644))

		ids, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-13_23-59-59", "2026-10-01_08-00-00", "2025-01-01_00-00-00"}, ids)
	})
}

func TestStoreSince(t *testing.T) {
	s := NewStore(t.TempDir(), "")
	for _, name := range []string{"2026-10-14_08-00-00", "2026-10-12_10-00-00", "2026-10-01_10-00-00"} {
		require.NoError(t, os.Mkdir(filepath.Join(s.Dir, name), 0o755))
	}
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	ids, err := s.Since(3, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-10-14_08-00-00", "2026-10-12_10-00-00"}, ids)

	ids, err = s.Since(30, now)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestStoreLoadErrors(t *testing.T) {
	s := NewStore(t.TempDir(), "report.json")

	for _, id := range []string{"", "../etc", "a/b", `a\b`, "/abs"} {
		_, err := s.Load(id)
		assert.ErrorIs(t, err, domain.ErrInvalidReportID, id)
	}

	_, err := s.Load("2026-10-14_09-30-00")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	require.NoError(t, os.Mkdir(filepath.Join(s.Dir, "2026-10-14_10-00-00"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "2026-10-14_10-00-00", "report.json"), []byte("  "), 0o644))
	_, err = s.Load("2026-10-14_10-00-00")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrReportNotFound)
}
