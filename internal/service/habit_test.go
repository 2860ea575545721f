package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yourname/lifetrack/internal"
)

func TestValidateHabitLogRequest(t *testing.T) {
	assert.NoError(t, ValidateHabitLogRequest(&HabitLogRequest{HabitType: "smoke"}))
	assert.Error(t, ValidateHabitLogRequest(&HabitLogRequest{HabitType: "vape"}))

	neg := -5.0
	assert.Error(t, ValidateHabitLogRequest(&HabitLogRequest{HabitType: "junk_food", CostRupees: &neg}))
}

func TestCalculateHabitStats(t *testing.T) {
	// Wednesday. Week starts on the preceding Sunday.
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.UTC)
	at := func(offsetDays int) time.Time { return now.AddDate(0, 0, offsetDays) }
	cost := 120.0

	logs := []internal.HabitLog{
		{HabitType: internal.HabitSmoke, Timestamp: at(0)},
		{HabitType: internal.HabitSmoke, Timestamp: at(-3)}, // Sunday
		{HabitType: internal.HabitHomeMeal, Timestamp: at(-1)},
		{HabitType: internal.HabitHomeMeal, Timestamp: at(-2)},
		{HabitType: internal.HabitHomeMeal, Timestamp: at(-7)}, // previous week
		{HabitType: internal.HabitJunkFood, Timestamp: at(-5), CostRupees: &cost},
	}

	stats := CalculateHabitStats(logs, now)

	assert.Equal(t, 1, stats.SmokesToday)
	// Yesterday and the day before were clean; the Sunday smoke breaks it.
	assert.Equal(t, 2, stats.SmokeFreeStreak)
	assert.Equal(t, 2, stats.HomeMealsThisWeek)
	assert.Equal(t, 120.0, stats.JunkFoodSpendThisMonth)
	// One smoked today against a baseline of three.
	assert.Equal(t, float64((BaselineSmokesPerDay-1)*CostPerSmokeRupees), stats.MoneySaved)
	assert.Equal(t, BaselineSmokesPerDay, stats.DailyBaseline)
}

func TestCalculateHabitStats_CleanMonth(t *testing.T) {
	now := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	stats := CalculateHabitStats(nil, now)

	assert.Equal(t, 0, stats.SmokesToday)
	assert.Equal(t, 29, stats.SmokeFreeStreak)
	assert.Equal(t, 0.0, stats.JunkFoodSpendThisMonth)
}
