package service

import (
	"context"
	"time"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

// WeeklyWorkoutGoal is the shared target of active workouts per week.
const WeeklyWorkoutGoal = 5

type WorkoutRequest struct {
	WorkoutType string `json:"workout_type" validate:"required,oneof=cardio strength yoga walk joint_activity rest"`
	DurationMin int    `json:"duration_min" validate:"required,gte=1,lte=1440"`
	Intensity   string `json:"intensity" validate:"required,oneof=light moderate intense"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func ValidateWorkoutRequest(req *WorkoutRequest) error {
	return validate.Struct(req)
}

func CreateWorkout(ctx context.Context, repo storage.WorkoutRepository, user *internal.User, req *WorkoutRequest) (*internal.Workout, error) {
	w := &internal.Workout{
		UserID:      user.ID,
		Date:        time.Now().Format("2006-01-02"),
		WorkoutType: internal.WorkoutType(req.WorkoutType),
		DurationMin: req.DurationMin,
		Intensity:   req.Intensity,
	}
	if req.Notes != "" {
		w.Notes = &req.Notes
	}
	if err := repo.SaveWorkout(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

type ExerciseStats struct {
	WorkoutsThisWeek     int  `json:"workoutsThisWeek"`
	TotalMinutesThisWeek int  `json:"totalMinutesThisWeek"`
	CurrentStreak        int  `json:"currentStreak"`
	WeeklyGoalMet        bool `json:"weeklyGoalMet"`
}

// CalculateExerciseStats counts active workouts this week (rest days
// excluded) and the daily streak over the trailing 30 days. A missed Sunday
// does not break the streak.
func CalculateExerciseStats(workouts []internal.Workout, now time.Time) ExerciseStats {
	weekStart := now.AddDate(0, 0, -int(now.Weekday())).Format("2006-01-02")

	activeByDay := make(map[string]bool)
	var stats ExerciseStats
	for _, w := range workouts {
		if w.WorkoutType == internal.WorkoutRest {
			continue
		}
		activeByDay[w.Date] = true
		if w.Date >= weekStart {
			stats.WorkoutsThisWeek++
			stats.TotalMinutesThisWeek += w.DurationMin
		}
	}
	stats.WeeklyGoalMet = stats.WorkoutsThisWeek >= WeeklyWorkoutGoal

	for i := 0; i < 30; i++ {
		day := now.AddDate(0, 0, -i)
		if activeByDay[day.Format("2006-01-02")] {
			stats.CurrentStreak++
		} else if i > 0 && day.Weekday() != time.Sunday {
			break
		}
	}

	return stats
}
