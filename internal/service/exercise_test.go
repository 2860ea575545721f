package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/lifetrack/internal"
)

func TestCalculateExerciseStats_WeeklyCounts(t *testing.T) {
	// Friday. Week starts on the preceding Sunday (Jan 14).
	now := time.Date(2024, 1, 19, 18, 0, 0, 0, time.UTC)

	workouts := []internal.Workout{
		{Date: "2024-01-19", WorkoutType: internal.WorkoutCardio, DurationMin: 30},
		{Date: "2024-01-18", WorkoutType: internal.WorkoutStrength, DurationMin: 45},
		{Date: "2024-01-17", WorkoutType: internal.WorkoutRest, DurationMin: 0}, // rest never counts
		{Date: "2024-01-13", WorkoutType: internal.WorkoutYoga, DurationMin: 60}, // previous week
	}

	stats := CalculateExerciseStats(workouts, now)
	assert.Equal(t, 2, stats.WorkoutsThisWeek)
	assert.Equal(t, 75, stats.TotalMinutesThisWeek)
	assert.False(t, stats.WeeklyGoalMet)
}

func TestCalculateExerciseStats_GoalMet(t *testing.T) {
	now := time.Date(2024, 1, 19, 18, 0, 0, 0, time.UTC)
	var workouts []internal.Workout
	for i := 0; i < WeeklyWorkoutGoal; i++ {
		workouts = append(workouts, internal.Workout{
			Date: now.AddDate(0, 0, -i).Format("2006-01-02"), WorkoutType: internal.WorkoutWalk, DurationMin: 20,
		})
	}
	assert.True(t, CalculateExerciseStats(workouts, now).WeeklyGoalMet)
}

func TestCalculateExerciseStats_StreakSkipsSunday(t *testing.T) {
	// Tuesday Jan 16. Monday and Saturday were active, Sunday Jan 14 was
	// not; the streak must carry through the missed Sunday.
	now := time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC)

	workouts := []internal.Workout{
		{Date: "2024-01-16", WorkoutType: internal.WorkoutCardio, DurationMin: 30},
		{Date: "2024-01-15", WorkoutType: internal.WorkoutCardio, DurationMin: 30},
		{Date: "2024-01-13", WorkoutType: internal.WorkoutStrength, DurationMin: 40},
		{Date: "2024-01-12", WorkoutType: internal.WorkoutWalk, DurationMin: 25},
	}

	stats := CalculateExerciseStats(workouts, now)
	assert.Equal(t, 4, stats.CurrentStreak)

	// A missed weekday does break it.
	now = time.Date(2024, 1, 18, 18, 0, 0, 0, time.UTC)
	stats = CalculateExerciseStats(workouts, now)
	// Today (Thu) unlogged is tolerated, Wednesday missing breaks.
	assert.Equal(t, 0, stats.CurrentStreak)
}
