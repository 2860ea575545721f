package api

import (
	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/healthimport"
	"github.com/yourname/lifetrack/internal/storage"
)

type App interface {
	Logger() internal.Logger
	SleepRepo() storage.SleepLogRepository
	HabitRepo() storage.HabitLogRepository
	MealRepo() storage.MealRepository
	WorkoutRepo() storage.WorkoutRepository
	LifeRepo() storage.LifeRepository
	ReviewRepo() storage.ReviewRepository
	Importer() *healthimport.Importer
	Progress() *ProgressHub
}
