package healthimport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/lifetrack/internal"
)

// memUpserter records upserted entries keyed by date, mimicking the
// insert-or-overwrite contract of the real backends.
type memUpserter struct {
	byDate   map[string]SleepEntry
	batches  int
	failDate string // any batch led by this date fails permanently
}

func newMemUpserter() *memUpserter {
	return &memUpserter{byDate: make(map[string]SleepEntry)}
}

func (m *memUpserter) UpsertDailySleep(ctx context.Context, userID string, entries []SleepEntry) (int, error) {
	m.batches++
	if m.failDate != "" && entries[0].Date == m.failDate {
		return 0, errors.New("connection reset")
	}
	for _, e := range entries {
		m.byDate[e.Date] = e
	}
	return len(entries), nil
}

func newTestImporter(up SleepUpserter, opts ...Option) *Importer {
	return NewImporter(up, internal.NewNopLogger(), opts...)
}

func TestHandleFileUpload_CSV(t *testing.T) {
	up := newMemUpserter()
	imp := newTestImporter(up)

	csv := "date,bedtime,wake_time,duration_hours\n2024-01-15,22:30,06:00,7.5\n"
	result := imp.HandleFileUpload(context.Background(), "u1", "sleep.csv", strings.NewReader(csv), int64(len(csv)), nil)

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, []string{}, result.Errors)

	entry := up.byDate["2024-01-15"]
	assert.Equal(t, "22:30", entry.Bedtime)
	assert.Equal(t, 450, entry.DurationMinutes)
}

func TestHandleFileUpload_EmptyFile(t *testing.T) {
	imp := newTestImporter(newMemUpserter())

	result := imp.HandleFileUpload(context.Background(), "u1", "empty.csv", strings.NewReader(""), 0, nil)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no valid sleep records found in file", result.Errors[0])
}

func TestHandleFileUpload_NotAuthenticated(t *testing.T) {
	imp := newTestImporter(newMemUpserter())

	result := imp.HandleFileUpload(context.Background(), "", "sleep.csv", strings.NewReader("x"), 1, nil)

	assert.False(t, result.Success)
	assert.Equal(t, []string{"not authenticated"}, result.Errors)
}

func TestHandleFileUpload_UnsupportedType(t *testing.T) {
	imp := newTestImporter(newMemUpserter())

	result := imp.HandleFileUpload(context.Background(), "u1", "sleep.pdf", strings.NewReader("x"), 1, nil)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unsupported file type")
}

func TestHandleFileUpload_ReimportIsIdempotent(t *testing.T) {
	up := newMemUpserter()
	imp := newTestImporter(up)

	xml := sampleExport
	first := imp.HandleFileUpload(context.Background(), "u1", "export.xml", strings.NewReader(xml), int64(len(xml)), nil)
	require.True(t, first.Success)
	snapshot := make(map[string]SleepEntry, len(up.byDate))
	for k, v := range up.byDate {
		snapshot[k] = v
	}

	second := imp.HandleFileUpload(context.Background(), "u1", "export.xml", strings.NewReader(xml), int64(len(xml)), nil)
	assert.True(t, second.Success)
	assert.Equal(t, first.Imported, second.Imported)
	assert.Equal(t, snapshot, up.byDate)
}

func TestHandleFileUpload_BatchFailureIsIsolated(t *testing.T) {
	up := newMemUpserter()
	up.failDate = "2024-01-15"
	imp := newTestImporter(up, WithBatchSize(1))

	csv := "h\n2024-01-15,22:30,06:00,7.5\n2024-01-16,23:00,06:30,7\n"
	result := imp.HandleFileUpload(context.Background(), "u1", "sleep.csv", strings.NewReader(csv), int64(len(csv)), nil)

	// The failed batch is reported; the one after it still lands.
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "batch starting 2024-01-15")
	assert.Contains(t, up.byDate, "2024-01-16")
	assert.NotContains(t, up.byDate, "2024-01-15")
}

func TestHandleFileUpload_StreamedXMLProgress(t *testing.T) {
	up := newMemUpserter()
	imp := newTestImporter(up, WithChunkBytes(64))

	var seen []int
	result := imp.HandleFileUpload(context.Background(), "u1", "export.xml",
		strings.NewReader(sampleExport), int64(len(sampleExport)),
		func(percent int) { seen = append(seen, percent) })

	assert.True(t, result.Success)
	require.NotEmpty(t, seen)
	assert.Equal(t, 100, seen[len(seen)-1])
	for _, pct := range seen {
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
	}
}

func TestHandleFileUpload_Canceled(t *testing.T) {
	imp := newTestImporter(newMemUpserter())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := imp.HandleFileUpload(ctx, "u1", "export.xml", strings.NewReader(sampleExport), int64(len(sampleExport)), nil)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "context canceled")
}
