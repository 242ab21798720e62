package guideline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/GoSummit/internal/assessment"
)

type fakeRow struct {
	doc []byte
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.doc
	return nil
}

type fakeQuerier struct {
	rows  map[string]fakeRow
	calls int
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.calls++
	row, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return row
}

func TestStore_BaseVersion(t *testing.T) {
	s, err := NewStore(nil, assessment.DefaultGuideline(), 0, nil)
	require.NoError(t, err)

	g, err := s.Get(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, assessment.DefaultGuidelineVersion, g.Version)

	g, err = s.Get(context.Background(), assessment.DefaultGuidelineVersion)
	require.NoError(t, err)
	assert.Equal(t, assessment.DefaultGuidelineVersion, g.Version)
}

func TestStore_NoDatabase(t *testing.T) {
	s, err := NewStore(nil, assessment.DefaultGuideline(), 4, nil)
	require.NoError(t, err)
	_, err = s.Get(context.Background(), "wms-2030")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LoadsAndCachesVersion(t *testing.T) {
	doc, err := json.Marshal(map[string]any{
		"ascent": map[string]any{"thresholdAltitude": 2500, "maxDailyGain": 400, "restDayInterval": 4},
	})
	require.NoError(t, err)
	q := &fakeQuerier{rows: map[string]fakeRow{"wms-2030": {doc: doc}}}

	s, err := NewStore(q, assessment.DefaultGuideline(), 4, nil)
	require.NoError(t, err)

	g, err := s.Get(context.Background(), "wms-2030")
	require.NoError(t, err)
	assert.Equal(t, "wms-2030", g.Version)
	assert.Equal(t, 400.0, g.Ascent.MaxDailyGain)
	assert.Equal(t, 4, g.Ascent.RestDayInterval)
	assert.Equal(t, assessment.SymptomHeadache, g.GatingSymptom, "unset fields keep defaults")

	_, err = s.Get(context.Background(), "wms-2030")
	require.NoError(t, err)
	assert.Equal(t, 1, q.calls)
}

func TestStore_MissingAndInvalidRows(t *testing.T) {
	bad, err := json.Marshal(map[string]any{"scoreBands": []map[string]any{{"min": 2, "tier": "low"}}})
	require.NoError(t, err)
	q := &fakeQuerier{rows: map[string]fakeRow{
		"broken":   {doc: bad},
		"db-error": {err: errors.New("connection reset")},
	}}
	s, err := NewStore(q, assessment.DefaultGuideline(), 4, nil)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, assessment.ErrInvalidConfig)

	_, err = s.Get(context.Background(), "db-error")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewStore_RejectsInvalidBase(t *testing.T) {
	g := assessment.DefaultGuideline()
	g.Version = ""
	_, err := NewStore(nil, g, 4, nil)
	assert.ErrorIs(t, err, assessment.ErrInvalidConfig)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guideline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: lls-2018
scoreBands:
  - {min: 0, tier: low}
  - {min: 3, tier: moderate}
  - {min: 6, tier: high}
  - {min: 10, tier: severe}
ascent:
  thresholdAltitude: 3000
  maxDailyGain: 300
  restDayInterval: 4
`), 0o600))

	g, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lls-2018", g.Version)
	assert.Len(t, g.ScoreBands, 4)
	assert.Equal(t, assessment.TierHigh, g.TierFor(7))
	assert.Equal(t, 300.0, g.Ascent.MaxDailyGain)
	assert.Equal(t, 88.0, g.SpO2Threshold(3000, 30), "defaults kept")
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("unknownField: 1\n"))
	require.Error(t, err)

	_, err = Parse([]byte("ascent:\n  restDayInterval: 1\n"))
	assert.ErrorIs(t, err, assessment.ErrInvalidConfig)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
