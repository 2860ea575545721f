package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/lifetrack/internal"
)

func intp(n int) *int { return &n }

func TestCalculateNutritionStats(t *testing.T) {
	// Wednesday Jan 17; week starts Sunday Jan 14.
	now := time.Date(2024, 1, 17, 20, 0, 0, 0, time.UTC)

	meals := []internal.Meal{
		{Date: "2024-01-17", MealType: internal.MealBreakfast, HomeOrOut: "home", Calories: intp(400), ProteinG: intp(20)},
		{Date: "2024-01-17", MealType: internal.MealLunch, HomeOrOut: "out", Calories: intp(800)},
		{Date: "2024-01-15", MealType: internal.MealDinner, HomeOrOut: "home", ProteinG: intp(30)},
		{Date: "2024-01-10", MealType: internal.MealDinner, HomeOrOut: "home", Calories: intp(9000)}, // previous week
	}

	stats := CalculateNutritionStats(meals, now)
	assert.Equal(t, 2, stats.MealsLoggedToday)
	assert.Equal(t, 1, stats.HomeMealsToday)
	assert.Equal(t, 600, stats.AvgCaloriesThisWeek) // (400+800)/2; dinner without calories excluded
	assert.Equal(t, 25, stats.AvgProteinThisWeek)   // (20+30)/2
}

func TestTodayMacros(t *testing.T) {
	now := time.Date(2024, 1, 17, 20, 0, 0, 0, time.UTC)

	meals := []internal.Meal{
		{Date: "2024-01-17", Calories: intp(400), ProteinG: intp(20), CarbsG: intp(50), FatsG: intp(10)},
		{Date: "2024-01-17", Calories: intp(600), CarbsG: intp(70)},
		{Date: "2024-01-16", Calories: intp(999)},
	}

	totals := TodayMacros(meals, now)
	assert.Equal(t, MacroTotals{Calories: 1000, Protein: 20, Carbs: 120, Fats: 10}, totals)
}
