package internal

import "time"

type User struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	Name        string `json:"name"`
	HouseholdID string `json:"household_id,omitempty"`
}

// SleepLog is one night of sleep for a user. At most one row exists per
// (user_id, date); imports upsert against that key instead of inserting
// duplicates.
type SleepLog struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	Date                 string  `json:"date"` // YYYY-MM-DD
	BedtimeTarget        string  `json:"bedtime_target,omitempty"`
	BedtimeActual        string  `json:"bedtime_actual,omitempty"` // HH:MM
	WakeActual           string  `json:"wake_actual,omitempty"`    // HH:MM
	SleepDurationMinutes *int    `json:"sleep_duration_minutes,omitempty"`
	QualityScore         *int    `json:"quality_score,omitempty"` // 1–10
	OnSchedule           bool    `json:"on_schedule"`
	Notes                *string `json:"notes,omitempty"`
	ImportedFrom         string  `json:"imported_from,omitempty"`
}

type HabitType string

const (
	HabitSmoke    HabitType = "smoke"
	HabitJunkFood HabitType = "junk_food"
	HabitHomeMeal HabitType = "home_meal"
)

type HabitLog struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	HabitType      HabitType `json:"habit_type"`
	Timestamp      time.Time `json:"timestamp"`
	TriggerReason  *string   `json:"trigger_reason,omitempty"`
	CostRupees     *float64  `json:"cost_rupees,omitempty"`
	RestaurantName *string   `json:"restaurant_name,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type Meal struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Date        string   `json:"date"` // YYYY-MM-DD
	MealType    MealType `json:"meal_type"`
	HomeOrOut   string   `json:"home_or_out"` // home | out
	Calories    *int     `json:"calories,omitempty"`
	ProteinG    *int     `json:"protein_g,omitempty"`
	CarbsG      *int     `json:"carbs_g,omitempty"`
	FatsG       *int     `json:"fats_g,omitempty"`
	Description *string  `json:"description,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type WorkoutType string

const (
	WorkoutCardio        WorkoutType = "cardio"
	WorkoutStrength      WorkoutType = "strength"
	WorkoutYoga          WorkoutType = "yoga"
	WorkoutWalk          WorkoutType = "walk"
	WorkoutJointActivity WorkoutType = "joint_activity"
	WorkoutRest          WorkoutType = "rest"
)

type Workout struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Date        string      `json:"date"` // YYYY-MM-DD
	WorkoutType WorkoutType `json:"workout_type"`
	DurationMin int         `json:"duration_min"`
	Intensity   string      `json:"intensity"` // light | moderate | intense
	Notes       *string     `json:"notes,omitempty"`
}

type Trip struct {
	ID          string   `json:"id"`
	HouseholdID string   `json:"household_id"`
	Date        string   `json:"date"`
	Destination string   `json:"destination"`
	Type        string   `json:"type"` // day | holiday
	CostRupees  float64  `json:"cost_rupees"`
	Notes       *string  `json:"notes,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}

type ChecklistItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type Milestone struct {
	ID            string          `json:"id"`
	HouseholdID   string          `json:"household_id"`
	MilestoneType string          `json:"milestone_type"` // dog | baby | travel | financial
	Title         string          `json:"title"`
	TargetDate    *string         `json:"target_date,omitempty"`
	Checklist     []ChecklistItem `json:"checklist"`
	Status        string          `json:"status"` // planned | in_progress | completed
	CreatedAt     time.Time       `json:"created_at"`
}

type SavingsGoal struct {
	ID            string    `json:"id"`
	HouseholdID   string    `json:"household_id"`
	GoalName      string    `json:"goal_name"`
	TargetAmount  float64   `json:"target_amount"`
	CurrentAmount float64   `json:"current_amount"`
	Deadline      *string   `json:"deadline,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeekStats is the roll-up shown in the Sunday review prompt.
type WeekStats struct {
	SleepOnTimeCount int `json:"sleepOnTimeCount"`
	SmokeFreeCount   int `json:"smokeFreeCount"`
	WorkoutsCount    int `json:"workoutsCount"`
	MealsLoggedCount int `json:"mealsLoggedCount"`
}

type WeeklyReview struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	WeekStart     string    `json:"week_start"` // YYYY-MM-DD, Monday
	Wins          string    `json:"wins"`
	Struggles     string    `json:"struggles"`
	NextWeekFocus string    `json:"next_week_focus"`
	Rating        int       `json:"rating"` // 1–5
	Stats         WeekStats `json:"stats"`
	CreatedAt     time.Time `json:"created_at"`
}
