package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgard/nutriplan/internal/config"
	"github.com/edgard/nutriplan/internal/guide"
)

// Maintainer runs storage maintenance.
type Maintainer interface {
	RunSQLMaintenance(ctx context.Context) error
}

// ProfileLoader refreshes the shared profile state from storage.
type ProfileLoader interface {
	Load(ctx context.Context)
}

// GuideGenerator produces a new meal guide.
type GuideGenerator interface {
	Generate(ctx context.Context) (*guide.Plan, error)
}

// TaskDeps contains the dependencies of the scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  Maintainer
	Loader ProfileLoader
	Guide  GuideGenerator
}

// RegisterAllTasks returns the task registry keyed by the names used in the
// scheduler.tasks configuration section.
func RegisterAllTasks(deps TaskDeps) map[string]TaskFunc {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return map[string]TaskFunc{
		config.TaskSQLMaintenance: newSQLMaintenanceTask(deps),
		config.TaskGuideRefresh:   newGuideRefreshTask(deps),
	}
}

func newSQLMaintenanceTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", config.TaskSQLMaintenance)

	return func(ctx context.Context) error {
		start := time.Now()
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}
		log.InfoContext(ctx, "SQL maintenance task completed successfully", "duration", time.Since(start))
		return nil
	}
}

// newGuideRefreshTask reloads the stored profile, so edits made by other
// processes are picked up, and generates a new guide from it.
func newGuideRefreshTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", config.TaskGuideRefresh)

	return func(ctx context.Context) error {
		start := time.Now()
		deps.Loader.Load(ctx)

		plan, err := deps.Guide.Generate(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Guide refresh task failed", "error", err, "duration", time.Since(start))
			return fmt.Errorf("guide refresh failed: %w", err)
		}
		log.InfoContext(ctx, "Guide refresh task completed successfully", "meals", len(plan.Meals), "duration", time.Since(start))
		return nil
	}
}
