package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/service"
)

func PostTrip(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.TripRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateTripRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		trip, err := service.CreateTrip(c.Request.Context(), app.LifeRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save trip")
			return
		}

		HandleSuccess(c, app.Logger(), trip, nil)
	}
}

// GetLife returns the household's shared dashboard in one call: trips,
// milestones and savings goals.
func GetLife(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)
		ctx := c.Request.Context()

		trips, err := app.LifeRepo().ListTrips(ctx, user.HouseholdID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch trips")
			return
		}
		milestones, err := app.LifeRepo().ListMilestones(ctx, user.HouseholdID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch milestones")
			return
		}
		goals, err := app.LifeRepo().ListSavingsGoals(ctx, user.HouseholdID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch savings goals")
			return
		}

		data := map[string]any{
			"trips":      trips,
			"milestones": milestones,
			"savings":    goals,
		}
		HandleSuccess(c, app.Logger(), data, nil)
	}
}

func PostMilestone(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.MilestoneRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateMilestoneRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		m, err := service.CreateMilestone(c.Request.Context(), app.LifeRepo(), user, &body)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save milestone")
			return
		}

		HandleSuccess(c, app.Logger(), m, nil)
	}
}

func PostMilestoneToggle(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid checklist index")
			return
		}

		m, err := service.ToggleChecklistItem(c.Request.Context(), app.LifeRepo(), user, c.Param("id"), index)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to toggle checklist item")
			return
		}

		HandleSuccess(c, app.Logger(), m, nil)
	}
}

func PutSavings(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		var body service.SavingsUpdateRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}

		if err := service.ValidateSavingsUpdateRequest(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Validation failed")
			return
		}

		goal, err := service.UpdateSavings(c.Request.Context(), app.LifeRepo(), user, c.Param("id"), body.Amount)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update savings goal")
			return
		}

		HandleSuccess(c, app.Logger(), goal, nil)
	}
}
