package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/healthimport"
)

// bedtimeCutoff is the on-schedule classification boundary. Postgres keeps
// this in a generated column; the file backend derives it on read so the
// authority stays in storage either way.
const bedtimeCutoff = "23:30"

// FileStorage keeps everything in memory and persists each collection to
// its own JSON file through a debounced save worker, so bursts of writes
// collapse into one disk flush.
type FileStorage struct {
	mu sync.RWMutex

	sleep    map[string]map[string]*internal.SleepLog // userID -> date -> row
	habits   map[string][]*internal.HabitLog          // userID -> logs (desc by timestamp)
	meals    map[string][]*internal.Meal              // userID -> meals (desc by date)
	workouts map[string][]*internal.Workout           // userID -> workouts (desc by date)
	trips    map[string][]*internal.Trip              // householdID -> trips (desc by date)
	miles    map[string]*internal.Milestone           // id -> milestone
	savings  map[string]*internal.SavingsGoal         // id -> goal
	reviews  map[string]map[string]*internal.WeeklyReview // userID -> weekStart -> review

	files map[string]string // collection name -> file path

	saveChan     chan string
	shutdownChan chan struct{}
	closeOnce    sync.Once
	saveDelay    time.Duration
	dirty        map[string]bool
	dirtyMu      sync.Mutex

	logger internal.Logger
}

// FilePaths names the JSON file backing each collection.
type FilePaths struct {
	Sleep    string
	Habits   string
	Meals    string
	Workouts string
	Life     string
	Reviews  string
}

// lifeFile is the shape of the combined household collection on disk.
type lifeFile struct {
	Trips        []*internal.Trip        `json:"trips"`
	Milestones   []*internal.Milestone   `json:"milestones"`
	SavingsGoals []*internal.SavingsGoal `json:"savings_goals"`
}

func NewFileStorage(paths FilePaths, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		sleep:    make(map[string]map[string]*internal.SleepLog),
		habits:   make(map[string][]*internal.HabitLog),
		meals:    make(map[string][]*internal.Meal),
		workouts: make(map[string][]*internal.Workout),
		trips:    make(map[string][]*internal.Trip),
		miles:    make(map[string]*internal.Milestone),
		savings:  make(map[string]*internal.SavingsGoal),
		reviews:  make(map[string]map[string]*internal.WeeklyReview),
		files: map[string]string{
			"sleep":    paths.Sleep,
			"habits":   paths.Habits,
			"meals":    paths.Meals,
			"workouts": paths.Workouts,
			"life":     paths.Life,
			"reviews":  paths.Reviews,
		},
		saveChan:     make(chan string, 16),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		dirty:        make(map[string]bool),
		logger:       logger,
	}

	if err := s.loadAll(); err != nil {
		logger.Errorf("storage: failed to load data files: %v", err)
		return nil, err
	}

	go s.saveWorker()
	return s, nil
}

func (s *FileStorage) loadAll() error {
	var sleepRows []*internal.SleepLog
	if err := loadJSONFile(s.files["sleep"], &sleepRows); err != nil {
		return err
	}
	for _, l := range sleepRows {
		if s.sleep[l.UserID] == nil {
			s.sleep[l.UserID] = make(map[string]*internal.SleepLog)
		}
		s.sleep[l.UserID][l.Date] = l
	}

	var habitRows []*internal.HabitLog
	if err := loadJSONFile(s.files["habits"], &habitRows); err != nil {
		return err
	}
	for _, l := range habitRows {
		s.habits[l.UserID] = append(s.habits[l.UserID], l)
	}
	for uid := range s.habits {
		sort.Slice(s.habits[uid], func(i, j int) bool {
			return s.habits[uid][i].Timestamp.After(s.habits[uid][j].Timestamp)
		})
	}

	var mealRows []*internal.Meal
	if err := loadJSONFile(s.files["meals"], &mealRows); err != nil {
		return err
	}
	for _, m := range mealRows {
		s.meals[m.UserID] = append(s.meals[m.UserID], m)
	}

	var workoutRows []*internal.Workout
	if err := loadJSONFile(s.files["workouts"], &workoutRows); err != nil {
		return err
	}
	for _, w := range workoutRows {
		s.workouts[w.UserID] = append(s.workouts[w.UserID], w)
	}

	var life lifeFile
	if err := loadJSONFile(s.files["life"], &life); err != nil {
		return err
	}
	for _, t := range life.Trips {
		s.trips[t.HouseholdID] = append(s.trips[t.HouseholdID], t)
	}
	for _, m := range life.Milestones {
		s.miles[m.ID] = m
	}
	for _, g := range life.SavingsGoals {
		s.savings[g.ID] = g
	}

	var reviewRows []*internal.WeeklyReview
	if err := loadJSONFile(s.files["reviews"], &reviewRows); err != nil {
		return err
	}
	for _, r := range reviewRows {
		if s.reviews[r.UserID] == nil {
			s.reviews[r.UserID] = make(map[string]*internal.WeeklyReview)
		}
		s.reviews[r.UserID][r.WeekStart] = r
	}

	return nil
}

func loadJSONFile(path string, dest any) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}
	return os.Rename(tempFile, filePath)
}

// markDirty queues a collection for the debounced save worker.
func (s *FileStorage) markDirty(collection string) {
	s.dirtyMu.Lock()
	s.dirty[collection] = true
	s.dirtyMu.Unlock()
	select {
	case s.saveChan <- collection:
	default:
	}
}

// saveWorker batches save signals so a burst of writes produces one flush.
func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			s.flushDirty()
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStorage) flushDirty() {
	s.dirtyMu.Lock()
	pending := make([]string, 0, len(s.dirty))
	for name := range s.dirty {
		pending = append(pending, name)
	}
	s.dirty = make(map[string]bool)
	s.dirtyMu.Unlock()

	for _, name := range pending {
		if err := s.saveCollection(name); err != nil {
			s.logger.Errorf("storage: error saving %s: %v", name, err)
		}
	}
}

func (s *FileStorage) saveCollection(name string) error {
	path := s.files[name]
	if path == "" {
		return nil
	}

	s.mu.RLock()
	var data any
	switch name {
	case "sleep":
		rows := []*internal.SleepLog{}
		for _, byDate := range s.sleep {
			for _, l := range byDate {
				rows = append(rows, l)
			}
		}
		data = rows
	case "habits":
		rows := []*internal.HabitLog{}
		for _, logs := range s.habits {
			rows = append(rows, logs...)
		}
		data = rows
	case "meals":
		rows := []*internal.Meal{}
		for _, meals := range s.meals {
			rows = append(rows, meals...)
		}
		data = rows
	case "workouts":
		rows := []*internal.Workout{}
		for _, workouts := range s.workouts {
			rows = append(rows, workouts...)
		}
		data = rows
	case "life":
		life := lifeFile{Trips: []*internal.Trip{}, Milestones: []*internal.Milestone{}, SavingsGoals: []*internal.SavingsGoal{}}
		for _, trips := range s.trips {
			life.Trips = append(life.Trips, trips...)
		}
		for _, m := range s.miles {
			life.Milestones = append(life.Milestones, m)
		}
		for _, g := range s.savings {
			life.SavingsGoals = append(life.SavingsGoals, g)
		}
		data = life
	case "reviews":
		rows := []*internal.WeeklyReview{}
		for _, byWeek := range s.reviews {
			for _, r := range byWeek {
				rows = append(rows, r)
			}
		}
		data = rows
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(path, data)
}

// Close flushes pending data and stops the save worker. Safe to call twice.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		for name := range s.files {
			if saveErr := s.saveCollection(name); saveErr != nil && err == nil {
				err = saveErr
			}
		}
	})
	return err
}

// onSchedule derives the classification the Postgres backend computes in a
// generated column.
func onSchedule(bedtimeActual string) bool {
	return bedtimeActual != "" && bedtimeActual <= bedtimeCutoff
}

// --- SleepLogRepository ---

func (s *FileStorage) SaveSleepLog(ctx context.Context, log *internal.SleepLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sleep[log.UserID] == nil {
		s.sleep[log.UserID] = make(map[string]*internal.SleepLog)
	}
	if existing, ok := s.sleep[log.UserID][log.Date]; ok {
		// Overwrite logged fields in place, keeping the row identity.
		log.ID = existing.ID
		if log.ImportedFrom == "" {
			log.ImportedFrom = existing.ImportedFrom
		}
	} else if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.OnSchedule = onSchedule(log.BedtimeActual)
	s.sleep[log.UserID][log.Date] = log

	s.markDirty("sleep")
	return nil
}

func (s *FileStorage) ListSleepLogs(ctx context.Context, userID string) ([]internal.SleepLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDate, ok := s.sleep[userID]
	if !ok {
		return []internal.SleepLog{}, nil
	}
	logs := make([]internal.SleepLog, 0, len(byDate))
	for _, l := range byDate {
		row := *l
		row.OnSchedule = onSchedule(row.BedtimeActual)
		logs = append(logs, row)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].Date > logs[j].Date })
	return logs, nil
}

func (s *FileStorage) UpsertDailySleep(ctx context.Context, userID string, entries []healthimport.SleepEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sleep[userID] == nil {
		s.sleep[userID] = make(map[string]*internal.SleepLog)
	}
	written := 0
	for _, e := range entries {
		row, ok := s.sleep[userID][e.Date]
		if !ok {
			row = &internal.SleepLog{ID: uuid.NewString(), UserID: userID, Date: e.Date}
			s.sleep[userID][e.Date] = row
		}
		row.BedtimeActual = e.Bedtime
		row.WakeActual = e.WakeTime
		if e.DurationMinutes > 0 {
			d := e.DurationMinutes
			row.SleepDurationMinutes = &d
		} else {
			row.SleepDurationMinutes = nil
		}
		row.ImportedFrom = "apple_health"
		row.OnSchedule = onSchedule(row.BedtimeActual)
		written++
	}

	s.markDirty("sleep")
	return written, nil
}

// --- HabitLogRepository ---

func (s *FileStorage) SaveHabitLog(ctx context.Context, log *internal.HabitLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	logs := s.habits[log.UserID]
	inserted := false
	for i, existing := range logs {
		if existing.Timestamp.Before(log.Timestamp) {
			logs = append(logs[:i], append([]*internal.HabitLog{log}, logs[i:]...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		logs = append(logs, log)
	}
	s.habits[log.UserID] = logs

	s.markDirty("habits")
	return nil
}

func (s *FileStorage) ListHabitLogs(ctx context.Context, userID string) ([]internal.HabitLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ptrs := s.habits[userID]
	logs := make([]internal.HabitLog, len(ptrs))
	for i, l := range ptrs {
		logs[i] = *l
	}
	return logs, nil
}

// --- MealRepository ---

func (s *FileStorage) SaveMeal(ctx context.Context, meal *internal.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.ID == "" {
		meal.ID = uuid.NewString()
	}
	s.meals[meal.UserID] = append(s.meals[meal.UserID], meal)

	s.markDirty("meals")
	return nil
}

func (s *FileStorage) ListMeals(ctx context.Context, userID string) ([]internal.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ptrs := s.meals[userID]
	meals := make([]internal.Meal, len(ptrs))
	for i, m := range ptrs {
		meals[i] = *m
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].Date > meals[j].Date })
	return meals, nil
}

// --- WorkoutRepository ---

func (s *FileStorage) SaveWorkout(ctx context.Context, w *internal.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	s.workouts[w.UserID] = append(s.workouts[w.UserID], w)

	s.markDirty("workouts")
	return nil
}

func (s *FileStorage) ListWorkouts(ctx context.Context, userID string) ([]internal.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ptrs := s.workouts[userID]
	workouts := make([]internal.Workout, len(ptrs))
	for i, w := range ptrs {
		workouts[i] = *w
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].Date > workouts[j].Date })
	return workouts, nil
}

// --- LifeRepository ---

func (s *FileStorage) SaveTrip(ctx context.Context, trip *internal.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trip.ID == "" {
		trip.ID = uuid.NewString()
	}
	s.trips[trip.HouseholdID] = append(s.trips[trip.HouseholdID], trip)

	s.markDirty("life")
	return nil
}

func (s *FileStorage) ListTrips(ctx context.Context, householdID string) ([]internal.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ptrs := s.trips[householdID]
	trips := make([]internal.Trip, len(ptrs))
	for i, t := range ptrs {
		trips[i] = *t
	}
	sort.Slice(trips, func(i, j int) bool { return trips[i].Date > trips[j].Date })
	return trips, nil
}

func (s *FileStorage) SaveMilestone(ctx context.Context, m *internal.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.miles[m.ID] = m

	s.markDirty("life")
	return nil
}

func (s *FileStorage) ListMilestones(ctx context.Context, householdID string) ([]internal.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	milestones := []internal.Milestone{}
	for _, m := range s.miles {
		if m.HouseholdID == householdID {
			milestones = append(milestones, *m)
		}
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].CreatedAt.Before(milestones[j].CreatedAt) })
	return milestones, nil
}

func (s *FileStorage) GetMilestone(ctx context.Context, id string) (*internal.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.miles[id]
	if !ok {
		return nil, errors.New("storage: milestone not found")
	}
	copied := *m
	return &copied, nil
}

func (s *FileStorage) UpdateMilestoneChecklist(ctx context.Context, id string, checklist []internal.ChecklistItem, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.miles[id]
	if !ok {
		return errors.New("storage: milestone not found")
	}
	m.Checklist = checklist
	m.Status = status

	s.markDirty("life")
	return nil
}

func (s *FileStorage) ListSavingsGoals(ctx context.Context, householdID string) ([]internal.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals := []internal.SavingsGoal{}
	for _, g := range s.savings {
		if g.HouseholdID == householdID {
			goals = append(goals, *g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.Before(goals[j].CreatedAt) })
	return goals, nil
}

func (s *FileStorage) UpdateSavingsAmount(ctx context.Context, goalID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.savings[goalID]
	if !ok {
		return errors.New("storage: savings goal not found")
	}
	g.CurrentAmount = amount

	s.markDirty("life")
	return nil
}

// SaveSavingsGoal exists so the file backend can be seeded; Postgres seeds
// through migrations or the API.
func (s *FileStorage) SaveSavingsGoal(ctx context.Context, g *internal.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	s.savings[g.ID] = g

	s.markDirty("life")
	return nil
}

// --- ReviewRepository ---

func (s *FileStorage) SaveReview(ctx context.Context, r *internal.WeeklyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reviews[r.UserID] == nil {
		s.reviews[r.UserID] = make(map[string]*internal.WeeklyReview)
	}
	if existing, ok := s.reviews[r.UserID][r.WeekStart]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now()
		}
	}
	s.reviews[r.UserID][r.WeekStart] = r

	s.markDirty("reviews")
	return nil
}

func (s *FileStorage) ListReviews(ctx context.Context, userID string) ([]internal.WeeklyReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byWeek := s.reviews[userID]
	reviews := make([]internal.WeeklyReview, 0, len(byWeek))
	for _, r := range byWeek {
		reviews = append(reviews, *r)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].WeekStart > reviews[j].WeekStart })
	return reviews, nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
