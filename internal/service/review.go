package service

import (
	"context"
	"time"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

// WeekBoundaries returns the Monday-start week containing now, as inclusive
// YYYY-MM-DD date strings. Reviews are keyed on the returned start.
func WeekBoundaries(now time.Time) (start, end string) {
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	monday := now.AddDate(0, 0, -offset)
	return monday.Format("2006-01-02"), monday.AddDate(0, 0, 6).Format("2006-01-02")
}

// ComputeWeekStats rolls the current week's logs into the summary shown
// alongside the review prompt. Rest workouts are not counted.
func ComputeWeekStats(now time.Time, sleeps []internal.SleepLog, habits []internal.HabitLog, workouts []internal.Workout, meals []internal.Meal) internal.WeekStats {
	start, end := WeekBoundaries(now)

	var stats internal.WeekStats
	for _, s := range sleeps {
		if s.Date >= start && s.Date <= end && s.OnSchedule {
			stats.SleepOnTimeCount++
		}
	}
	for _, w := range workouts {
		if w.Date >= start && w.Date <= end && w.WorkoutType != internal.WorkoutRest {
			stats.WorkoutsCount++
		}
	}
	for _, m := range meals {
		if m.Date >= start && m.Date <= end {
			stats.MealsLoggedCount++
		}
	}

	smokedDays := make(map[string]bool)
	for _, h := range habits {
		if h.HabitType != internal.HabitSmoke {
			continue
		}
		day := h.Timestamp.Format("2006-01-02")
		if day >= start && day <= end {
			smokedDays[day] = true
		}
	}
	today := now.Format("2006-01-02")
	for d := start; d <= end && d <= today; {
		if !smokedDays[d] {
			stats.SmokeFreeCount++
		}
		t, _ := time.Parse("2006-01-02", d)
		d = t.AddDate(0, 0, 1).Format("2006-01-02")
	}

	return stats
}

type ReviewRequest struct {
	Wins          string `json:"wins" validate:"required,max=2000"`
	Struggles     string `json:"struggles" validate:"required,max=2000"`
	NextWeekFocus string `json:"next_week_focus" validate:"required,max=2000"`
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
}

func ValidateReviewRequest(req *ReviewRequest) error {
	return validate.Struct(req)
}

// CreateReview saves this week's review, overwriting any earlier submission
// for the same week. Stats are computed server-side at submission time.
func CreateReview(ctx context.Context, repo storage.ReviewRepository, user *internal.User, req *ReviewRequest, stats internal.WeekStats, now time.Time) (*internal.WeeklyReview, error) {
	weekStart, _ := WeekBoundaries(now)
	review := &internal.WeeklyReview{
		UserID:        user.ID,
		WeekStart:     weekStart,
		Wins:          req.Wins,
		Struggles:     req.Struggles,
		NextWeekFocus: req.NextWeekFocus,
		Rating:        req.Rating,
		Stats:         stats,
		CreatedAt:     now,
	}
	if err := repo.SaveReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
