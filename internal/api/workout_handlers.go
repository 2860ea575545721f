package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

func PostWorkout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.WorkoutRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateWorkoutRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		workout, err := service.CreateWorkout(c.Request.Context(), app.WorkoutRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save workout")
			return
		}

		HandleSuccess(c, app.Logger(), workout, nil)
	}
}

func GetWorkouts(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		workouts, err := app.WorkoutRepo().ListWorkouts(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch workouts")
			return
		}

		HandleSuccess(c, app.Logger(), workouts, nil)
	}
}

func GetWorkoutStats(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		workouts, err := app.WorkoutRepo().ListWorkouts(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch workouts for stats")
			return
		}

		stats := service.CalculateExerciseStats(workouts, time.Now())
		HandleSuccess(c, app.Logger(), stats, nil)
	}
}
