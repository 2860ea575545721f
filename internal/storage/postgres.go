package storage

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/healthimport"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := runMigrations(pool); err != nil {
		pool.Close()
		logger.Errorf("failed to run migrations: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// --- SleepLogRepository ---

// SaveSleepLog upserts one manually logged night on (user_id, date).
// on_schedule is a generated column and is never written here.
func (p *PostgresStorage) SaveSleepLog(ctx context.Context, log *internal.SleepLog) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO sleep_logs (user_id, date, bedtime_actual, wake_actual, sleep_duration_minutes, quality_score, notes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (user_id, date) DO UPDATE SET
			bedtime_actual         = EXCLUDED.bedtime_actual,
			wake_actual            = EXCLUDED.wake_actual,
			sleep_duration_minutes = EXCLUDED.sleep_duration_minutes,
			quality_score          = EXCLUDED.quality_score,
			notes                  = EXCLUDED.notes`,
		log.UserID, log.Date, log.BedtimeActual, log.WakeActual, log.SleepDurationMinutes, log.QualityScore, log.Notes)
	if err != nil {
		p.logger.Errorf("failed to upsert sleep log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListSleepLogs(ctx context.Context, userID string) ([]internal.SleepLog, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), COALESCE(bedtime_target, ''),
		       COALESCE(bedtime_actual, ''), COALESCE(wake_actual, ''),
		       sleep_duration_minutes, quality_score, on_schedule, notes,
		       COALESCE(imported_from, '')
		FROM sleep_logs WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query sleep logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.SleepLog
	for rows.Next() {
		var l internal.SleepLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.BedtimeTarget, &l.BedtimeActual,
			&l.WakeActual, &l.SleepDurationMinutes, &l.QualityScore, &l.OnSchedule, &l.Notes, &l.ImportedFrom)
		if err != nil {
			p.logger.Errorf("failed to scan sleep log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// UpsertDailySleep writes one import batch as a single multi-row statement
// against the (user_id, date) conflict key. No per-row existence checks;
// zero-valued fields become NULLs so partial rows do not clobber real data
// with empty strings.
func (p *PostgresStorage) UpsertDailySleep(ctx context.Context, userID string, entries []healthimport.SleepEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	dates := make([]string, len(entries))
	bedtimes := make([]string, len(entries))
	wakes := make([]string, len(entries))
	durations := make([]int32, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
		bedtimes[i] = e.Bedtime
		wakes[i] = e.WakeTime
		durations[i] = int32(e.DurationMinutes)
	}

	tag, err := p.pool.Exec(ctx, `
		INSERT INTO sleep_logs (user_id, date, bedtime_actual, wake_actual, sleep_duration_minutes, imported_from)
		SELECT $1, t.d::date, NULLIF(t.b, ''), NULLIF(t.w, ''), NULLIF(t.m, 0), 'apple_health'
		FROM unnest($2::text[], $3::text[], $4::text[], $5::int[]) AS t(d, b, w, m)
		ON CONFLICT (user_id, date) DO UPDATE SET
			bedtime_actual         = EXCLUDED.bedtime_actual,
			wake_actual            = EXCLUDED.wake_actual,
			sleep_duration_minutes = EXCLUDED.sleep_duration_minutes,
			imported_from          = EXCLUDED.imported_from`,
		userID, dates, bedtimes, wakes, durations)
	if err != nil {
		p.logger.Errorf("failed to upsert sleep batch: %v", err)
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// --- HabitLogRepository ---

func (p *PostgresStorage) SaveHabitLog(ctx context.Context, log *internal.HabitLog) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO habit_logs (user_id, habit_type, timestamp, trigger_reason, cost_rupees, restaurant_name, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.UserID, log.HabitType, log.Timestamp, log.TriggerReason, log.CostRupees, log.RestaurantName, log.Notes)
	if err != nil {
		p.logger.Errorf("failed to insert habit log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListHabitLogs(ctx context.Context, userID string) ([]internal.HabitLog, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, habit_type, timestamp, trigger_reason, cost_rupees, restaurant_name, notes
		FROM habit_logs WHERE user_id = $1 ORDER BY timestamp DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query habit logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var logs []internal.HabitLog
	for rows.Next() {
		var l internal.HabitLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.HabitType, &l.Timestamp, &l.TriggerReason, &l.CostRupees, &l.RestaurantName, &l.Notes); err != nil {
			p.logger.Errorf("failed to scan habit log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- MealRepository ---

func (p *PostgresStorage) SaveMeal(ctx context.Context, meal *internal.Meal) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO meals (user_id, date, meal_type, home_or_out, calories, protein_g, carbs_g, fats_g, description, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		meal.UserID, meal.Date, meal.MealType, meal.HomeOrOut, meal.Calories, meal.ProteinG, meal.CarbsG, meal.FatsG, meal.Description, meal.Notes)
	if err != nil {
		p.logger.Errorf("failed to insert meal: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListMeals(ctx context.Context, userID string) ([]internal.Meal, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), meal_type, home_or_out, calories, protein_g, carbs_g, fats_g, description, notes
		FROM meals WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query meals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var meals []internal.Meal
	for rows.Next() {
		var m internal.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.MealType, &m.HomeOrOut, &m.Calories, &m.ProteinG, &m.CarbsG, &m.FatsG, &m.Description, &m.Notes); err != nil {
			p.logger.Errorf("failed to scan meal: %v", err)
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// --- WorkoutRepository ---

func (p *PostgresStorage) SaveWorkout(ctx context.Context, w *internal.Workout) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO workouts (user_id, date, workout_type, duration_min, intensity, notes)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		w.UserID, w.Date, w.WorkoutType, w.DurationMin, w.Intensity, w.Notes)
	if err != nil {
		p.logger.Errorf("failed to insert workout: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListWorkouts(ctx context.Context, userID string) ([]internal.Workout, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), workout_type, duration_min, intensity, notes
		FROM workouts WHERE user_id = $1 ORDER BY date DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query workouts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var workouts []internal.Workout
	for rows.Next() {
		var w internal.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.WorkoutType, &w.DurationMin, &w.Intensity, &w.Notes); err != nil {
			p.logger.Errorf("failed to scan workout: %v", err)
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// --- LifeRepository ---

func (p *PostgresStorage) SaveTrip(ctx context.Context, trip *internal.Trip) error {
	photos, err := json.Marshal(trip.Photos)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO trips (household_id, date, destination, type, cost_rupees, notes, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		trip.HouseholdID, trip.Date, trip.Destination, trip.Type, trip.CostRupees, trip.Notes, photos)
	if err != nil {
		p.logger.Errorf("failed to insert trip: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListTrips(ctx context.Context, householdID string) ([]internal.Trip, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, household_id, to_char(date, 'YYYY-MM-DD'), destination, type, cost_rupees, notes, photos
		FROM trips WHERE household_id = $1 ORDER BY date DESC`, householdID)
	if err != nil {
		p.logger.Errorf("failed to query trips: %v", err)
		return nil, err
	}
	defer rows.Close()

	var trips []internal.Trip
	for rows.Next() {
		var t internal.Trip
		var photos []byte
		if err := rows.Scan(&t.ID, &t.HouseholdID, &t.Date, &t.Destination, &t.Type, &t.CostRupees, &t.Notes, &photos); err != nil {
			p.logger.Errorf("failed to scan trip: %v", err)
			return nil, err
		}
		if err := json.Unmarshal(photos, &t.Photos); err != nil {
			return nil, fmt.Errorf("decode trip photos: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (p *PostgresStorage) SaveMilestone(ctx context.Context, m *internal.Milestone) error {
	checklist, err := json.Marshal(m.Checklist)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO milestones (household_id, milestone_type, title, target_date, checklist, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.HouseholdID, m.MilestoneType, m.Title, m.TargetDate, checklist, m.Status)
	if err != nil {
		p.logger.Errorf("failed to insert milestone: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListMilestones(ctx context.Context, householdID string) ([]internal.Milestone, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, household_id, milestone_type, title, to_char(target_date, 'YYYY-MM-DD'), checklist, status, created_at
		FROM milestones WHERE household_id = $1 ORDER BY created_at ASC`, householdID)
	if err != nil {
		p.logger.Errorf("failed to query milestones: %v", err)
		return nil, err
	}
	defer rows.Close()

	var milestones []internal.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows.Scan)
		if err != nil {
			p.logger.Errorf("failed to scan milestone: %v", err)
			return nil, err
		}
		milestones = append(milestones, *m)
	}
	return milestones, rows.Err()
}

func (p *PostgresStorage) GetMilestone(ctx context.Context, id string) (*internal.Milestone, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, household_id, milestone_type, title, to_char(target_date, 'YYYY-MM-DD'), checklist, status, created_at
		FROM milestones WHERE id = $1`, id)
	m, err := scanMilestone(row.Scan)
	if err != nil {
		p.logger.Errorf("milestone not found: %v", err)
		return nil, err
	}
	return m, nil
}

func scanMilestone(scan func(dest ...any) error) (*internal.Milestone, error) {
	var m internal.Milestone
	var checklist []byte
	if err := scan(&m.ID, &m.HouseholdID, &m.MilestoneType, &m.Title, &m.TargetDate, &checklist, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(checklist, &m.Checklist); err != nil {
		return nil, fmt.Errorf("decode milestone checklist: %w", err)
	}
	return &m, nil
}

func (p *PostgresStorage) UpdateMilestoneChecklist(ctx context.Context, id string, checklist []internal.ChecklistItem, status string) error {
	data, err := json.Marshal(checklist)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `UPDATE milestones SET checklist = $2, status = $3 WHERE id = $1`, id, data, status)
	if err != nil {
		p.logger.Errorf("failed to update milestone checklist: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListSavingsGoals(ctx context.Context, householdID string) ([]internal.SavingsGoal, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, household_id, goal_name, target_amount, current_amount, to_char(deadline, 'YYYY-MM-DD'), created_at
		FROM savings_goals WHERE household_id = $1 ORDER BY created_at ASC`, householdID)
	if err != nil {
		p.logger.Errorf("failed to query savings goals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var goals []internal.SavingsGoal
	for rows.Next() {
		var g internal.SavingsGoal
		if err := rows.Scan(&g.ID, &g.HouseholdID, &g.GoalName, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan savings goal: %v", err)
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (p *PostgresStorage) UpdateSavingsAmount(ctx context.Context, goalID string, amount float64) error {
	_, err := p.pool.Exec(ctx, `UPDATE savings_goals SET current_amount = $2 WHERE id = $1`, goalID, amount)
	if err != nil {
		p.logger.Errorf("failed to update savings goal: %v", err)
		return err
	}
	return nil
}

// --- ReviewRepository ---

func (p *PostgresStorage) SaveReview(ctx context.Context, r *internal.WeeklyReview) error {
	stats, err := json.Marshal(r.Stats)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO weekly_reviews (user_id, week_start, wins, struggles, next_week_focus, rating, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			wins            = EXCLUDED.wins,
			struggles       = EXCLUDED.struggles,
			next_week_focus = EXCLUDED.next_week_focus,
			rating          = EXCLUDED.rating,
			stats           = EXCLUDED.stats`,
		r.UserID, r.WeekStart, r.Wins, r.Struggles, r.NextWeekFocus, r.Rating, stats)
	if err != nil {
		p.logger.Errorf("failed to upsert weekly review: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListReviews(ctx context.Context, userID string) ([]internal.WeeklyReview, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, to_char(week_start, 'YYYY-MM-DD'), wins, struggles, next_week_focus, rating, stats, created_at
		FROM weekly_reviews WHERE user_id = $1 ORDER BY week_start DESC`, userID)
	if err != nil {
		p.logger.Errorf("failed to query weekly reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []internal.WeeklyReview
	for rows.Next() {
		var r internal.WeeklyReview
		var stats []byte
		if err := rows.Scan(&r.ID, &r.UserID, &r.WeekStart, &r.Wins, &r.Struggles, &r.NextWeekFocus, &r.Rating, &stats, &r.CreatedAt); err != nil {
			p.logger.Errorf("failed to scan weekly review: %v", err)
			return nil, err
		}
		if err := json.Unmarshal(stats, &r.Stats); err != nil {
			return nil, fmt.Errorf("decode review stats: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
