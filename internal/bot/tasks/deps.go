// Package tasks defines the scheduled background tasks and their
// registration.
package tasks

import (
	"log/slog"

	"github.com/drigmma/ankety/internal/config"
	"github.com/drigmma/ankety/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
