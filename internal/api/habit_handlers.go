package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

func PostHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.HabitLogRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateHabitLogRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		log, err := service.CreateHabitLog(c.Request.Context(), app.HabitRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save habit log")
			return
		}

		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetHabits(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		logs, err := app.HabitRepo().ListHabitLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch habit logs")
			return
		}

		HandleSuccess(c, app.Logger(), logs, nil)
	}
}

func GetHabitStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		logs, err := app.HabitRepo().ListHabitLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch habit logs for stats")
			return
		}

		stats := service.CalculateHabitStats(logs, time.Now())
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}
