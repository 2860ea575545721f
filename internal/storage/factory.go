package storage

import (
	"fmt"

	"github.com/yourname/lifetrack/internal"
	"github.com/yourname/lifetrack/internal/config"
)

// NewStore builds the backend selected by STORAGE_BACKEND.
func NewStore(cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "postgres":
		return NewPostgresStorage(cfg.DBDSN, logger)
	case "file":
		return NewFileStorage(FilePaths{
			Sleep:    cfg.FileSleep,
			Habits:   cfg.FileHabits,
			Meals:    cfg.FileMeals,
			Workouts: cfg.FileWorkouts,
			Life:     cfg.FileLife,
			Reviews:  cfg.FileReviews,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.DBType)
	}
}
