package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/storage"
)

var validate = validator.New()

type SleepLogRequest struct {
	Date         string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Bedtime      string `json:"bedtime" validate:"required,datetime=15:04"`
	WakeTime     string `json:"wake_time" validate:"required,datetime=15:04"`
	QualityScore int    `json:"quality_score" validate:"required,gte=1,lte=10"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func ValidateSleepLogRequest(body *SleepLogRequest) error {
	return validate.Struct(body)
}

// CreateSleepLog records a night of sleep, defaulting to today. The duration
// is derived from the clock pair, rolling past midnight when the wake time
// is earlier than the bedtime. on_schedule is storage-derived, never set here.
func CreateSleepLog(ctx context.Context, repo storage.SleepLogRepository, user *internal.User, body *SleepLogRequest) (*internal.SleepLog, error) {
	date := body.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	duration := clockSpanMinutes(body.Bedtime, body.WakeTime)
	quality := body.QualityScore
	log := &internal.SleepLog{
		UserID:               user.ID,
		Date:                 date,
		BedtimeActual:        body.Bedtime,
		WakeActual:           body.WakeTime,
		SleepDurationMinutes: &duration,
		QualityScore:         &quality,
	}
	if body.Notes != "" {
		log.Notes = &body.Notes
	}
	if err := repo.SaveSleepLog(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// clockSpanMinutes computes minutes between two HH:MM wall-clock times,
// treating a wake time before the bedtime as next-day.
func clockSpanMinutes(bedtime, wake string) int {
	bed := clockToMinutes(bedtime)
	wk := clockToMinutes(wake)
	if wk < bed {
		wk += 24 * 60
	}
	return wk - bed
}

func clockToMinutes(clock string) int {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

type SleepStats struct {
	Streak          int     `json:"streak"`
	AvgQuality      float64 `json:"average_quality"`
	AvgDurationMin  float64 `json:"average_duration_minutes"`
	OnScheduleCount int     `json:"on_schedule_count_7d"`
}

// CalculateSleepStats rolls the trailing week into averages and computes the
// on-schedule streak over the trailing 30 days. An unlogged today does not
// break the streak.
func CalculateSleepStats(logs []internal.SleepLog, now time.Time) SleepStats {
	byDate := make(map[string]*internal.SleepLog, len(logs))
	for i := range logs {
		byDate[logs[i].Date] = &logs[i]
	}

	streak := 0
	for i := 0; i < 30; i++ {
		dateStr := now.AddDate(0, 0, -i).Format("2006-01-02")
		if log, ok := byDate[dateStr]; ok && log.OnSchedule {
			streak++
		} else if i > 0 {
			break
		}
	}

	cutoff := now.AddDate(0, 0, -7).Format("2006-01-02")
	var (
		qualitySum, qualityCount   int
		durationSum, durationCount int
		onScheduleCount            int
	)
	for _, l := range logs {
		if l.Date <= cutoff {
			continue
		}
		if l.QualityScore != nil {
			qualitySum += *l.QualityScore
			qualityCount++
		}
		if l.SleepDurationMinutes != nil {
			durationSum += *l.SleepDurationMinutes
			durationCount++
		}
		if l.OnSchedule {
			onScheduleCount++
		}
	}

	stats := SleepStats{Streak: streak, OnScheduleCount: onScheduleCount}
	if qualityCount > 0 {
		stats.AvgQuality = float64(qualitySum) / float64(qualityCount)
	}
	if durationCount > 0 {
		stats.AvgDurationMin = float64(durationSum) / float64(durationCount)
	}
	return stats
}
