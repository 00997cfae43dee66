// Package settings persists per-schedule presentation preferences, keyed by
// the schedule's stable identity so they survive document reloads.
package settings

import (
	"context"

	"github.com/rk-tools/schedule-engine/pkg/models"
)

// Repository stores sort criteria per schedule. Load returns
// apperrors.ErrNotFound when no criteria were ever saved for the schedule.
type Repository interface {
	Load(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error)
	Save(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error
}
