package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/lifetrack/internal"
)

func TestValidateSleepLogRequest(t *testing.T) {
	valid := &SleepLogRequest{Bedtime: "23:00", WakeTime: "06:30", QualityScore: 7}
	assert.NoError(t, ValidateSleepLogRequest(valid))

	assert.Error(t, ValidateSleepLogRequest(&SleepLogRequest{Bedtime: "25:00", WakeTime: "06:30", QualityScore: 7}))
	assert.Error(t, ValidateSleepLogRequest(&SleepLogRequest{Bedtime: "23:00", WakeTime: "06:30", QualityScore: 11}))
	assert.Error(t, ValidateSleepLogRequest(&SleepLogRequest{Date: "15/01/2024", Bedtime: "23:00", WakeTime: "06:30", QualityScore: 7}))
}

func TestClockSpanMinutes(t *testing.T) {
	assert.Equal(t, 450, clockSpanMinutes("22:30", "06:00")) // past midnight
	assert.Equal(t, 90, clockSpanMinutes("13:00", "14:30"))  // same day
	assert.Equal(t, 0, clockSpanMinutes("23:00", "23:00"))
}

func dayStr(now time.Time, offset int) string {
	return now.AddDate(0, 0, offset).Format("2006-01-02")
}

func TestCalculateSleepStats_Streak(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

	logs := []internal.SleepLog{
		{Date: dayStr(now, -1), OnSchedule: true},
		{Date: dayStr(now, -2), OnSchedule: true},
		{Date: dayStr(now, -3), OnSchedule: false},
		{Date: dayStr(now, -4), OnSchedule: true},
	}

	// Today unlogged: streak still counts from yesterday, broken by day -3.
	stats := CalculateSleepStats(logs, now)
	assert.Equal(t, 2, stats.Streak)

	// Today logged on schedule extends it.
	logs = append(logs, internal.SleepLog{Date: dayStr(now, 0), OnSchedule: true})
	stats = CalculateSleepStats(logs, now)
	assert.Equal(t, 3, stats.Streak)
}

func TestCalculateSleepStats_WeeklyAverages(t *testing.T) {
	now := time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)
	q8, q6 := 8, 6
	d450, d480 := 450, 480

	logs := []internal.SleepLog{
		{Date: dayStr(now, -1), QualityScore: &q8, SleepDurationMinutes: &d450, OnSchedule: true},
		{Date: dayStr(now, -2), QualityScore: &q6, SleepDurationMinutes: &d480},
		{Date: dayStr(now, -3)},                   // imported row with no quality
		{Date: dayStr(now, -10), QualityScore: &q8}, // outside the window
	}

	stats := CalculateSleepStats(logs, now)
	assert.InDelta(t, 7.0, stats.AvgQuality, 0.001)
	assert.InDelta(t, 465.0, stats.AvgDurationMin, 0.001)
	assert.Equal(t, 1, stats.OnScheduleCount)
}
