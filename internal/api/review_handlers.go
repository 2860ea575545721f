package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

// weekStats gathers the four log streams and rolls them into this week's
// summary. Used both for the review prompt and at submission time.
func weekStats(c *gin.Context, app App, user *internal.User, now time.Time) (internal.WeekStats, bool) {
	ctx := c.Request.Context()

	sleeps, err := app.SleepRepo().ListSleepLogs(ctx, user.ID)
	if err != nil {
		HandleError(c, app.Logger(), err, 500, "Failed to fetch sleep logs")
		return internal.WeekStats{}, false
	}
	habits, err := app.HabitRepo().ListHabitLogs(ctx, user.ID)
	if err != nil {
		HandleError(c, app.Logger(), err, 500, "Failed to fetch habit logs")
		return internal.WeekStats{}, false
	}
	workouts, err := app.WorkoutRepo().ListWorkouts(ctx, user.ID)
	if err != nil {
		HandleError(c, app.Logger(), err, 500, "Failed to fetch workouts")
		return internal.WeekStats{}, false
	}
	meals, err := app.MealRepo().ListMeals(ctx, user.ID)
	if err != nil {
		HandleError(c, app.Logger(), err, 500, "Failed to fetch meals")
		return internal.WeekStats{}, false
	}

	return service.ComputeWeekStats(now, sleeps, habits, workouts, meals), true
}

func GetReviewWeek(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		now := time.Now()
		stats, ok := weekStats(c, app, user, now)
		if !ok {
			return
		}

		start, end := service.WeekBoundaries(now)
		meta := map[string]any{"week_start": start, "week_end": end}
		HandleSuccess(c, app.Logger(), stats, meta)
	}
}

func PostReview(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.ReviewRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateReviewRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		now := time.Now()
		stats, ok := weekStats(c, app, user, now)
		if !ok {
			return
		}

		review, err := service.CreateReview(c.Request.Context(), app.ReviewRepo(), user, &body, stats, now)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save review")
			return
		}

		HandleSuccess(c, app.Logger(), review, nil)
	}
}

func GetReviews(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		reviews, err := app.ReviewRepo().ListReviews(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch reviews")
			return
		}

		HandleSuccess(c, app.Logger(), reviews, nil)
	}
}
