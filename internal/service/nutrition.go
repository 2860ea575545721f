package service

import (
	"context"
	"math"
	"time"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

type MealRequest struct {
	MealType    string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	HomeOrOut   string `json:"home_or_out" validate:"required,oneof=home out"`
	Calories    *int   `json:"calories,omitempty" validate:"omitempty,gte=0"`
	ProteinG    *int   `json:"protein_g,omitempty" validate:"omitempty,gte=0"`
	CarbsG      *int   `json:"carbs_g,omitempty" validate:"omitempty,gte=0"`
	FatsG       *int   `json:"fats_g,omitempty" validate:"omitempty,gte=0"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Notes       string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func ValidateMealRequest(req *MealRequest) error {
	return validate.Struct(req)
}

func CreateMeal(ctx context.Context, repo storage.MealRepository, user *internal.User, req *MealRequest) (*internal.Meal, error) {
	meal := &internal.Meal{
		UserID:    user.ID,
		Date:      time.Now().Format("2006-01-02"),
		MealType:  internal.MealType(req.MealType),
		HomeOrOut: req.HomeOrOut,
		Calories:  req.Calories,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatsG:     req.FatsG,
	}
	if req.Description != "" {
		meal.Description = &req.Description
	}
	if req.Notes != "" {
		meal.Notes = &req.Notes
	}
	if err := repo.SaveMeal(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

type NutritionStats struct {
	MealsLoggedToday   int `json:"mealsLoggedToday"`
	HomeMealsToday     int `json:"homeMealsToday"`
	AvgCaloriesThisWeek int `json:"avgCaloriesThisWeek"`
	AvgProteinThisWeek  int `json:"avgProteinThisWeek"`
}

type MacroTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// CalculateNutritionStats counts today's meals and averages calories and
// protein over the current week (Sunday start), only across meals that
// actually carry the field.
func CalculateNutritionStats(meals []internal.Meal, now time.Time) NutritionStats {
	today := now.Format("2006-01-02")
	weekStart := now.AddDate(0, 0, -int(now.Weekday())).Format("2006-01-02")

	var stats NutritionStats
	var calSum, calCount, protSum, protCount int
	for _, m := range meals {
		if m.Date == today {
			stats.MealsLoggedToday++
			if m.HomeOrOut == "home" {
				stats.HomeMealsToday++
			}
		}
		if m.Date >= weekStart {
			if m.Calories != nil {
				calSum += *m.Calories
				calCount++
			}
			if m.ProteinG != nil {
				protSum += *m.ProteinG
				protCount++
			}
		}
	}
	if calCount > 0 {
		stats.AvgCaloriesThisWeek = int(math.Round(float64(calSum) / float64(calCount)))
	}
	if protCount > 0 {
		stats.AvgProteinThisWeek = int(math.Round(float64(protSum) / float64(protCount)))
	}
	return stats
}

// TodayMacros sums today's logged macros for the dashboard summary.
func TodayMacros(meals []internal.Meal, now time.Time) MacroTotals {
	today := now.Format("2006-01-02")
	var totals MacroTotals
	for _, m := range meals {
		if m.Date != today {
			continue
		}
		if m.Calories != nil {
			totals.Calories += *m.Calories
		}
		if m.ProteinG != nil {
			totals.Protein += *m.ProteinG
		}
		if m.CarbsG != nil {
			totals.Carbs += *m.CarbsG
		}
		if m.FatsG != nil {
			totals.Fats += *m.FatsG
		}
	}
	return totals
}
