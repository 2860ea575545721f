package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/auth"
	"github.com/yourname/lifetrack/internal/config"
	"github.com/yourname/lifetrack/internal/healthimport"
	"github.com/yourname/lifetrack/internal/storage"
)

// Server owns the wired application: one store, one importer, one progress
// hub. It satisfies App for the handler constructors.
type Server struct {
	logger   internal.Logger
	store    storage.Store
	importer *healthimport.Importer
	hub      *ProgressHub
}

func NewServer(cfg *config.Config, logger internal.Logger, store storage.Store) *Server {
	importer := healthimport.NewImporter(store, logger,
		healthimport.WithChunkBytes(cfg.ImportChunkBytes),
		healthimport.WithBatchSize(cfg.ImportBatchSize),
	)
	return &Server{
		logger:   logger,
		store:    store,
		importer: importer,
		hub:      NewProgressHub(logger),
	}
}

func (s *Server) Logger() internal.Logger                  { return s.logger }
func (s *Server) SleepRepo() storage.SleepLogRepository    { return s.store }
func (s *Server) HabitRepo() storage.HabitLogRepository    { return s.store }
func (s *Server) MealRepo() storage.MealRepository         { return s.store }
func (s *Server) WorkoutRepo() storage.WorkoutRepository   { return s.store }
func (s *Server) LifeRepo() storage.LifeRepository         { return s.store }
func (s *Server) ReviewRepo() storage.ReviewRepository     { return s.store }
func (s *Server) Importer() *healthimport.Importer         { return s.importer }
func (s *Server) Progress() *ProgressHub                   { return s.hub }

var _ App = (*Server)(nil)

// Router builds the gin engine with every route behind auth.
func (s *Server) Router(cfg *config.Config, provider auth.Provider) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	g := r.Group("/api")
	g.Use(auth.AuthMiddleware(provider, cfg))

	g.POST("/sleep", PostSleep(s))
	g.GET("/sleep", GetSleep(s))
	g.GET("/sleep/stats", GetSleepStats(s))

	g.POST("/habits", PostHabit(s))
	g.GET("/habits", GetHabits(s))
	g.GET("/habits/stats", GetHabitStats(s))

	g.POST("/meals", PostMeal(s))
	g.GET("/meals", GetMeals(s))
	g.GET("/meals/stats", GetMealStats(s))

	g.POST("/workouts", PostWorkout(s))
	g.GET("/workouts", GetWorkouts(s))
	g.GET("/workouts/stats", GetWorkoutStats(s))

	g.POST("/trips", PostTrip(s))
	g.GET("/life", GetLife(s))
	g.POST("/milestones", PostMilestone(s))
	g.POST("/milestones/:id/toggle/:index", PostMilestoneToggle(s))
	g.PUT("/savings/:id", PutSavings(s))

	g.GET("/review/week", GetReviewWeek(s))
	g.POST("/review", PostReview(s))
	g.GET("/review", GetReviews(s))

	g.POST("/import/sleep", PostImportSleep(s))
	g.GET("/import/progress", GetImportProgress(s))

	return r
}
