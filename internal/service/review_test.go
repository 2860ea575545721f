package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/lifetrack/internal"
)

func TestWeekBoundaries(t *testing.T) {
	// Wednesday → Monday of the same week.
	start, end := WeekBoundaries(time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-15", start)
	assert.Equal(t, "2024-01-21", end)

	// Sunday belongs to the week that began the previous Monday.
	start, end = WeekBoundaries(time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-15", start)
	assert.Equal(t, "2024-01-21", end)

	// Monday starts its own week.
	start, _ = WeekBoundaries(time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-22", start)
}

func TestComputeWeekStats(t *testing.T) {
	// Friday Jan 19; week is Mon Jan 15 – Sun Jan 21.
	now := time.Date(2024, 1, 19, 12, 0, 0, 0, time.UTC)

	sleeps := []internal.SleepLog{
		{Date: "2024-01-15", OnSchedule: true},
		{Date: "2024-01-16", OnSchedule: false},
		{Date: "2024-01-17", OnSchedule: true},
		{Date: "2024-01-10", OnSchedule: true}, // previous week
	}
	habits := []internal.HabitLog{
		{HabitType: internal.HabitSmoke, Timestamp: time.Date(2024, 1, 16, 14, 0, 0, 0, time.UTC)},
		{HabitType: internal.HabitHomeMeal, Timestamp: time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC)},
	}
	workouts := []internal.Workout{
		{Date: "2024-01-15", WorkoutType: internal.WorkoutCardio},
		{Date: "2024-01-16", WorkoutType: internal.WorkoutRest},
	}
	meals := []internal.Meal{
		{Date: "2024-01-15"}, {Date: "2024-01-19"}, {Date: "2024-01-22"},
	}

	stats := ComputeWeekStats(now, sleeps, habits, workouts, meals)
	assert.Equal(t, 2, stats.SleepOnTimeCount)
	// Mon through Fri elapsed, one smoking day (Tue).
	assert.Equal(t, 4, stats.SmokeFreeCount)
	assert.Equal(t, 1, stats.WorkoutsCount)
	assert.Equal(t, 2, stats.MealsLoggedCount)
}

func TestValidateReviewRequest(t *testing.T) {
	valid := &ReviewRequest{Wins: "slept well", Struggles: "cravings", NextWeekFocus: "earlier bedtime", Rating: 4}
	assert.NoError(t, ValidateReviewRequest(valid))

	assert.Error(t, ValidateReviewRequest(&ReviewRequest{Wins: "w", Struggles: "s", NextWeekFocus: "f", Rating: 6}))
	assert.Error(t, ValidateReviewRequest(&ReviewRequest{Struggles: "s", NextWeekFocus: "f", Rating: 3}))
}
