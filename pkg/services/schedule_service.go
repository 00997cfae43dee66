package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/projector"
	"github.com/rk-tools/schedule-engine/pkg/settings"
	"github.com/rk-tools/schedule-engine/pkg/sorting"
)

// duplicateSuffix matches the " (1)", " (2)" suffixes the projector appends
// to disambiguate repeated column names. Such columns are hidden from rename
// targeting.
var duplicateSuffix = regexp.MustCompile(`\s\(\d+\)$`)

// ScheduleService produces the presentation views of a schedule: the raw
// projection, the itemize-toggled and sorted view, rename previews, and the
// persisted sort criteria behind them.
type ScheduleService interface {
	// LoadSchedule projects the schedule into its raw table.
	LoadSchedule(ctx context.Context, scheduleID models.ElementID) (*models.ScheduleTable, error)

	// LoadView projects the schedule and derives the presentation table:
	// the per-schedule itemize preference and saved sort criteria applied.
	LoadView(ctx context.Context, scheduleID models.ElementID) (*models.ScheduleTable, error)

	// Itemized returns the schedule's itemize preference (default true).
	Itemized(scheduleID models.ElementID) bool

	// SetItemized records the schedule's itemize preference.
	SetItemized(scheduleID models.ElementID, itemized bool)

	// SortCriteria returns the saved criteria, or an empty list when none
	// were ever saved.
	SortCriteria(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error)

	// SaveSortCriteria persists criteria for the schedule.
	SaveSortCriteria(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error

	// RenameOptions lists the table columns that can be rename targets.
	RenameOptions(table *models.ScheduleTable) []models.RenameOption

	// BuildRenamePreview applies the transform to the selected rows of one
	// column, yielding the rename items a batch would execute.
	BuildRenamePreview(table *models.ScheduleTable, rowIndexes []int, option models.RenameOption, transform models.RenameTransform) []models.RenameItem
}

type scheduleService struct {
	doc       host.Document
	projector *projector.Projector
	repo      settings.Repository
	logger    *zap.Logger

	mu       sync.Mutex
	itemized map[models.ElementID]bool
}

// NewScheduleService creates a ScheduleService.
func NewScheduleService(doc host.Document, proj *projector.Projector, repo settings.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		doc:       doc,
		projector: proj,
		repo:      repo,
		logger:    logger.Named("schedule-service"),
		itemized:  make(map[models.ElementID]bool),
	}
}

var _ ScheduleService = (*scheduleService)(nil)

func (s *scheduleService) LoadSchedule(ctx context.Context, scheduleID models.ElementID) (*models.ScheduleTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schedule, ok := s.doc.Schedule(scheduleID)
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", scheduleID, apperrors.ErrScheduleNotFound)
	}
	return s.projector.Project(schedule), nil
}

func (s *scheduleService) LoadView(ctx context.Context, scheduleID models.ElementID) (*models.ScheduleTable, error) {
	table, err := s.LoadSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	view := projector.View(table, s.Itemized(scheduleID))

	criteria, err := s.SortCriteria(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return sorting.Table(view, criteria), nil
}

func (s *scheduleService) Itemized(scheduleID models.ElementID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	itemized, ok := s.itemized[scheduleID]
	if !ok {
		return true
	}
	return itemized
}

func (s *scheduleService) SetItemized(scheduleID models.ElementID, itemized bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemized[scheduleID] = itemized
}

func (s *scheduleService) SortCriteria(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error) {
	criteria, err := s.repo.Load(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load sort criteria for schedule %d: %w", scheduleID, err)
	}
	return criteria, nil
}

func (s *scheduleService) SaveSortCriteria(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error {
	if err := s.repo.Save(ctx, scheduleID, criteria); err != nil {
		return fmt.Errorf("save sort criteria for schedule %d: %w", scheduleID, err)
	}
	s.logger.Debug("saved sort criteria",
		zap.Int64("schedule_id", int64(scheduleID)),
		zap.Int("levels", len(criteria)))
	return nil
}

func (s *scheduleService) RenameOptions(table *models.ScheduleTable) []models.RenameOption {
	var options []models.RenameOption
	for _, column := range table.Columns {
		switch column {
		case models.ColumnElementID, models.ColumnTypeName, models.ColumnCount:
			continue
		}
		if duplicateSuffix.MatchString(column) {
			continue
		}
		options = append(options, models.RenameOption{
			Name:            column,
			IsTypeAttribute: table.TypeFallback[column],
		})
	}
	return options
}

func (s *scheduleService) BuildRenamePreview(table *models.ScheduleTable, rowIndexes []int, option models.RenameOption, transform models.RenameTransform) []models.RenameItem {
	colIdx := table.ColumnIndex(option.Name)
	idIdx := table.ColumnIndex(models.ColumnElementID)
	typeIdx := table.ColumnIndex(models.ColumnTypeName)
	if colIdx < 0 || idIdx < 0 {
		return nil
	}

	var items []models.RenameItem
	for _, rowIdx := range rowIndexes {
		if rowIdx < 0 || rowIdx >= len(table.Rows) {
			continue
		}
		row := table.Rows[rowIdx]
		elementID, err := strconv.ParseInt(row[idIdx], 10, 64)
		if err != nil {
			continue
		}

		original := row[colIdx]
		elementName := fmt.Sprintf("Element %d", elementID)
		if typeIdx >= 0 && row[typeIdx] != "" {
			elementName = row[typeIdx]
		}

		items = append(items, models.RenameItem{
			ElementID:       models.ElementID(elementID),
			AttributeName:   option.Name,
			Original:        original,
			New:             transform.Apply(original),
			IsTypeAttribute: option.IsTypeAttribute,
			ElementName:     elementName,
		})
	}
	return items
}
