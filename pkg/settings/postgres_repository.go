package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/database"
	"github.com/rk-tools/schedule-engine/pkg/jsonutil"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/retry"
)

// postgresRepository stores sort criteria in the engine_schedule_sort_settings
// table, one JSONB row per schedule. Transient database errors are retried
// with backoff.
type postgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a Repository over the settings database.
func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db}
}

var _ Repository = (*postgresRepository)(nil)

// rawCriterion mirrors SortCriterion with raw fields. Admin tooling and
// migration scripts sometimes write the column as a number or the direction
// as a string, so both are decoded tolerantly.
type rawCriterion struct {
	Column    json.RawMessage `json:"column"`
	Ascending json.RawMessage `json:"ascending"`
}

func (r *postgresRepository) Load(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error) {
	query := `
		SELECT criteria
		FROM engine_schedule_sort_settings
		WHERE schedule_id = $1`

	var raw []byte
	err := retry.Do(ctx, nil, func() error {
		return r.db.QueryRow(ctx, query, int64(scheduleID)).Scan(&raw)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("sort criteria for schedule %d: %w", scheduleID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load sort criteria: %w", err)
	}

	var rawCriteria []rawCriterion
	if err := json.Unmarshal(raw, &rawCriteria); err != nil {
		return nil, fmt.Errorf("failed to decode sort criteria: %w", err)
	}
	criteria := make([]models.SortCriterion, 0, len(rawCriteria))
	for _, rc := range rawCriteria {
		criteria = append(criteria, models.SortCriterion{
			Column:    jsonutil.FlexibleString(rc.Column),
			Ascending: jsonutil.FlexibleBool(rc.Ascending),
		})
	}
	return criteria, nil
}

func (r *postgresRepository) Save(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error {
	raw, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("failed to encode sort criteria: %w", err)
	}

	query := `
		INSERT INTO engine_schedule_sort_settings (schedule_id, criteria, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (schedule_id)
		DO UPDATE SET criteria = EXCLUDED.criteria, updated_at = EXCLUDED.updated_at`

	err = retry.Do(ctx, nil, func() error {
		_, execErr := r.db.Exec(ctx, query, int64(scheduleID), raw, time.Now())
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to save sort criteria: %w", err)
	}
	return nil
}
