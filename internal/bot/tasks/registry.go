package tasks

import (
	"context"
)

// ScheduledTaskFunc is the signature shared by all scheduled tasks. The
// context comes from the scheduler and must be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks builds the map of available tasks. The keys match the
// task names used in the scheduler section of the configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	taskMap := make(map[string]ScheduledTaskFunc)

	taskMap["sql_maintenance"] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(taskMap))
	return taskMap
}
