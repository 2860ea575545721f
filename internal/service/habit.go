package service

import (
	"context"
	"time"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

const (
	// BaselineSmokesPerDay is the pre-quit daily consumption used to value
	// avoided cigarettes.
	BaselineSmokesPerDay = 3
	CostPerSmokeRupees   = 30
)

type HabitLogRequest struct {
	HabitType      string   `json:"habit_type" validate:"required,oneof=smoke junk_food home_meal"`
	TriggerReason  string   `json:"trigger_reason,omitempty" validate:"omitempty,max=500"`
	CostRupees     *float64 `json:"cost_rupees,omitempty" validate:"omitempty,gte=0"`
	RestaurantName string   `json:"restaurant_name,omitempty" validate:"omitempty,max=200"`
	Notes          string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func ValidateHabitLogRequest(req *HabitLogRequest) error {
	return validate.Struct(req)
}

func CreateHabitLog(ctx context.Context, repo storage.HabitLogRepository, user *internal.User, req *HabitLogRequest) (*internal.HabitLog, error) {
	log := &internal.HabitLog{
		UserID:    user.ID,
		HabitType: internal.HabitType(req.HabitType),
		Timestamp: time.Now(),
	}
	if req.TriggerReason != "" {
		log.TriggerReason = &req.TriggerReason
	}
	log.CostRupees = req.CostRupees
	if req.RestaurantName != "" {
		log.RestaurantName = &req.RestaurantName
	}
	if req.Notes != "" {
		log.Notes = &req.Notes
	}
	if err := repo.SaveHabitLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

type HabitStats struct {
	SmokeFreeStreak       int     `json:"smokeFreeStreak"`
	MoneySaved            float64 `json:"moneySaved"`
	HomeMealsThisWeek     int     `json:"homeMealsThisWeek"`
	JunkFoodSpendThisMonth float64 `json:"junkFoodSpendThisMonth"`
	SmokesToday           int     `json:"smokesToday"`
	DailyBaseline         int     `json:"dailyBaseline"`
}

// CalculateHabitStats derives the smoking-cessation and eating-habit
// roll-ups: today's smoke count, the smoke-free streak over the trailing 30
// days (today excluded so a clean day in progress still counts tomorrow),
// money saved against the baseline, home-cooked meals this week (Sunday
// start) and junk-food spend this month.
func CalculateHabitStats(logs []internal.HabitLog, now time.Time) HabitStats {
	todayStr := now.Format("2006-01-02")

	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	smokesByDay := make(map[string]int)
	var homeMealsThisWeek int
	var junkFoodSpend float64
	for _, l := range logs {
		switch l.HabitType {
		case internal.HabitSmoke:
			smokesByDay[l.Timestamp.Format("2006-01-02")]++
		case internal.HabitHomeMeal:
			if !l.Timestamp.Before(weekStart) {
				homeMealsThisWeek++
			}
		case internal.HabitJunkFood:
			if !l.Timestamp.Before(monthStart) && l.CostRupees != nil {
				junkFoodSpend += *l.CostRupees
			}
		}
	}

	smokesToday := smokesByDay[todayStr]

	streak := 0
	for i := 1; i < 30; i++ {
		dateStr := now.AddDate(0, 0, -i).Format("2006-01-02")
		if smokesByDay[dateStr] == 0 {
			streak++
		} else {
			break
		}
	}

	avoided := BaselineSmokesPerDay - smokesToday
	if avoided < 0 {
		avoided = 0
	}

	return HabitStats{
		SmokeFreeStreak:        streak,
		MoneySaved:             float64(avoided * CostPerSmokeRupees),
		HomeMealsThisWeek:      homeMealsThisWeek,
		JunkFoodSpendThisMonth: junkFoodSpend,
		SmokesToday:            smokesToday,
		DailyBaseline:          BaselineSmokesPerDay,
	}
}
