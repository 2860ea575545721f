package api

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

func PostSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.SleepLogRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateSleepLogRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		log, err := service.CreateSleepLog(c.Request.Context(), app.SleepRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save sleep log")
			return
		}

		HandleSuccess(c, app.Logger(), log, nil)
	}
}

func GetSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		logs, err := app.SleepRepo().ListSleepLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch sleep logs")
			return
		}

		sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })

		HandleSuccess(c, app.Logger(), logs, nil)
	}
}

func GetSleepStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		logs, err := app.SleepRepo().ListSleepLogs(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch sleep logs for stats")
			return
		}

		stats := service.CalculateSleepStats(logs, time.Now())
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}
