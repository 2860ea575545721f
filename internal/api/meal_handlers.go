package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

func PostMeal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.MealRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateMealRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		meal, err := service.CreateMeal(c.Request.Context(), app.MealRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save meal")
			return
		}

		HandleSuccess(c, app.Logger(), meal, nil)
	}
}

func GetMeals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		meals, err := app.MealRepo().ListMeals(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch meals")
			return
		}

		HandleSuccess(c, app.Logger(), meals, nil)
	}
}

func GetMealStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		meals, err := app.MealRepo().ListMeals(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch meals for stats")
			return
		}

		now := time.Now()
		stats := service.CalculateNutritionStats(meals, now)
		meta := map[string]any{"today_macros": service.TodayMacros(meals, now)}
		HandleSuccess(c, app.Logger(), stats, meta)
	}
}
