package healthimport

import (
	"context"
	"time"
)

// SleepEntry is one aggregated day of sleep produced by a parser,
// ready to be upserted against the (user_id, date) conflict key.
type SleepEntry struct {
	Date            string `json:"date"` // YYYY-MM-DD
	Bedtime         string `json:"bedtime"`
	WakeTime        string `json:"wakeTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ImportResult is the outcome of one import operation. Success is true iff
// at least one entry was persisted. Errors collects per-batch failures in
// order; a non-empty Errors with Success=true means partial success.
type ImportResult struct {
	Success  bool     `json:"success"`
	Imported int      `json:"imported"`
	Errors   []string `json:"errors"`
}

// ProgressFunc receives the percentage (0–100) of source bytes processed.
// Emissions are throttled; a final 100 is always delivered.
type ProgressFunc func(percent int)

// SleepUpserter persists a batch of entries for a user with a single
// upsert-on-conflict call, returning the number of rows written.
type SleepUpserter interface {
	UpsertDailySleep(ctx context.Context, userID string, entries []SleepEntry) (int, error)
}

// Candidate key names tried in order when reading loosely-structured JSON
// items. Centralized so the fallback chains have one source of truth.
var (
	dateKeys     = []string{"date", "startDate", "start_date"}
	bedtimeKeys  = []string{"bedtime", "startTime", "start_time"}
	wakeTimeKeys = []string{"wakeTime", "endTime", "end_time", "wake_time"}
	durationKeys = []string{"duration", "durationMinutes", "duration_minutes"}
)

// timeLayouts are the timestamp shapes seen in health exports, most
// specific first. Apple's export.xml uses "2006-01-02 15:04:05 -0700".
var timeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// parseHealthTime tries each known layout in order.
func parseHealthTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeDate truncates any parseable timestamp to its calendar date.
func normalizeDate(s string) (string, bool) {
	t, ok := parseHealthTime(s)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// clockTime renders the wall-clock HH:MM of an instant in its own zone.
func clockTime(t time.Time) string {
	return t.Format("15:04")
}
