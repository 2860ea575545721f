package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/healthimport"
)

func newTestFileStorage(t *testing.T) (*FileStorage, FilePaths) {
	t.Helper()
	dir := t.TempDir()
	paths := FilePaths{
		Sleep:    filepath.Join(dir, "sleep.json"),
		Habits:   filepath.Join(dir, "habits.json"),
		Meals:    filepath.Join(dir, "meals.json"),
		Workouts: filepath.Join(dir, "workouts.json"),
		Life:     filepath.Join(dir, "life.json"),
		Reviews:  filepath.Join(dir, "reviews.json"),
	}
	s, err := NewFileStorage(paths, internal.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, paths
}

func TestFileStorage_SleepUpsertByDate(t *testing.T) {
	s, _ := newTestFileStorage(t)
	ctx := context.Background()
	d1 := 420

	require.NoError(t, s.SaveSleepLog(ctx, &internal.SleepLog{UserID: "u1", Date: "2024-01-15", BedtimeActual: "23:00", SleepDurationMinutes: &d1}))
	require.NoError(t, s.SaveSleepLog(ctx, &internal.SleepLog{UserID: "u1", Date: "2024-01-15", BedtimeActual: "23:45"}))

	logs, err := s.ListSleepLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "23:45", logs[0].BedtimeActual)
	assert.False(t, logs[0].OnSchedule)
}

func TestFileStorage_OnScheduleDerivation(t *testing.T) {
	s, _ := newTestFileStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSleepLog(ctx, &internal.SleepLog{UserID: "u1", Date: "2024-01-15", BedtimeActual: "23:30"}))
	require.NoError(t, s.SaveSleepLog(ctx, &internal.SleepLog{UserID: "u1", Date: "2024-01-16", BedtimeActual: "23:31"}))
	require.NoError(t, s.SaveSleepLog(ctx, &internal.SleepLog{UserID: "u1", Date: "2024-01-17"}))

	logs, err := s.ListSleepLogs(ctx, "u1")
	require.NoError(t, err)
	byDate := map[string]bool{}
	for _, l := range logs {
		byDate[l.Date] = l.OnSchedule
	}
	assert.True(t, byDate["2024-01-15"])  // cutoff itself counts
	assert.False(t, byDate["2024-01-16"]) // one minute past
	assert.False(t, byDate["2024-01-17"]) // no bedtime at all
}

func TestFileStorage_UpsertDailySleepIdempotent(t *testing.T) {
	s, _ := newTestFileStorage(t)
	ctx := context.Background()

	batch := []healthimport.SleepEntry{
		{Date: "2024-01-15", Bedtime: "22:30", WakeTime: "06:00", DurationMinutes: 450},
		{Date: "2024-01-16", Bedtime: "23:00", WakeTime: "06:30", DurationMinutes: 420},
	}

	n, err := s.UpsertDailySleep(ctx, "u1", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.UpsertDailySleep(ctx, "u1", batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	logs, err := s.ListSleepLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, "apple_health", l.ImportedFrom)
		assert.True(t, l.OnSchedule)
	}
}

func TestFileStorage_ReloadsFromDisk(t *testing.T) {
	s, paths := newTestFileStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveHabitLog(ctx, &internal.HabitLog{UserID: "u1", HabitType: internal.HabitSmoke, Timestamp: time.Now()}))
	require.NoError(t, s.SaveMeal(ctx, &internal.Meal{UserID: "u1", Date: "2024-01-15", MealType: internal.MealLunch, HomeOrOut: "home"}))
	require.NoError(t, s.Close())

	reopened, err := NewFileStorage(paths, internal.NewNopLogger())
	require.NoError(t, err)
	defer reopened.Close()

	habits, err := reopened.ListHabitLogs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, habits, 1)
	meals, err := reopened.ListMeals(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, meals, 1)
}

func TestFileStorage_MilestoneChecklist(t *testing.T) {
	s, _ := newTestFileStorage(t)
	ctx := context.Background()

	m := &internal.Milestone{
		HouseholdID:   "h1",
		MilestoneType: "dog",
		Title:         "Get a dog",
		Checklist:     []internal.ChecklistItem{{Task: "research breeds"}, {Task: "puppy-proof flat"}},
		Status:        "planned",
	}
	require.NoError(t, s.SaveMilestone(ctx, m))
	require.NotEmpty(t, m.ID)

	done := []internal.ChecklistItem{{Task: "research breeds", Completed: true}, {Task: "puppy-proof flat"}}
	require.NoError(t, s.UpdateMilestoneChecklist(ctx, m.ID, done, "in_progress"))

	got, err := s.GetMilestone(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)
	assert.True(t, got.Checklist[0].Completed)

	_, err = s.GetMilestone(ctx, "missing")
	assert.Error(t, err)
}

func TestFileStorage_SavingsAndReviews(t *testing.T) {
	s, _ := newTestFileStorage(t)
	ctx := context.Background()

	g := &internal.SavingsGoal{HouseholdID: "h1", GoalName: "Goa trip", TargetAmount: 50000}
	require.NoError(t, s.SaveSavingsGoal(ctx, g))
	require.NoError(t, s.UpdateSavingsAmount(ctx, g.ID, 12500))

	goals, err := s.ListSavingsGoals(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 12500.0, goals[0].CurrentAmount)

	r := &internal.WeeklyReview{UserID: "u1", WeekStart: "2024-01-15", Wins: "first draft", Rating: 4}
	require.NoError(t, s.SaveReview(ctx, r))
	// Same week overwrites.
	require.NoError(t, s.SaveReview(ctx, &internal.WeeklyReview{UserID: "u1", WeekStart: "2024-01-15", Wins: "revised", Rating: 5}))

	reviews, err := s.ListReviews(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "revised", reviews[0].Wins)
}
