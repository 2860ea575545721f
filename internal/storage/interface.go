package storage

import (
	"context"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/healthimport"
)

// SleepLogRepository persists nightly sleep rows. Both Save and
// UpsertDailySleep honor the (user_id, date) uniqueness invariant: writing a
// date that already exists overwrites the row instead of duplicating it.
type SleepLogRepository interface {
	SaveSleepLog(ctx context.Context, log *internal.SleepLog) error
	ListSleepLogs(ctx context.Context, userID string) ([]internal.SleepLog, error)

	// UpsertDailySleep writes one import batch with a single
	// insert-or-overwrite call and returns the rows written. Implements
	// healthimport.SleepUpserter for a fixed user.
	UpsertDailySleep(ctx context.Context, userID string, entries []healthimport.SleepEntry) (int, error)
}

type HabitLogRepository interface {
	SaveHabitLog(ctx context.Context, log *internal.HabitLog) error
	ListHabitLogs(ctx context.Context, userID string) ([]internal.HabitLog, error)
}

type MealRepository interface {
	SaveMeal(ctx context.Context, meal *internal.Meal) error
	ListMeals(ctx context.Context, userID string) ([]internal.Meal, error)
}

type WorkoutRepository interface {
	SaveWorkout(ctx context.Context, workout *internal.Workout) error
	ListWorkouts(ctx context.Context, userID string) ([]internal.Workout, error)
}

// LifeRepository holds the household-scoped shared entities.
type LifeRepository interface {
	SaveTrip(ctx context.Context, trip *internal.Trip) error
	ListTrips(ctx context.Context, householdID string) ([]internal.Trip, error)
	ListMilestones(ctx context.Context, householdID string) ([]internal.Milestone, error)
	SaveMilestone(ctx context.Context, m *internal.Milestone) error
	GetMilestone(ctx context.Context, id string) (*internal.Milestone, error)
	UpdateMilestoneChecklist(ctx context.Context, id string, checklist []internal.ChecklistItem, status string) error
	ListSavingsGoals(ctx context.Context, householdID string) ([]internal.SavingsGoal, error)
	UpdateSavingsAmount(ctx context.Context, goalID string, amount float64) error
}

// ReviewRepository keys weekly reviews on (user_id, week_start).
type ReviewRepository interface {
	SaveReview(ctx context.Context, review *internal.WeeklyReview) error
	ListReviews(ctx context.Context, userID string) ([]internal.WeeklyReview, error)
}

// Store bundles every repository a backend must provide.
type Store interface {
	SleepLogRepository
	HabitLogRepository
	MealRepository
	WorkoutRepository
	LifeRepository
	ReviewRepository
	Close() error
}

// Any SleepLogRepository satisfies the import pipeline's upserter contract.
var _ healthimport.SleepUpserter = (SleepLogRepository)(nil)
