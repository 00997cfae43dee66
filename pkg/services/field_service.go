package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/catalog"
	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// FieldService manages a schedule's ordered field-definition list and serves
// the catalog data the field editor is populated from.
type FieldService interface {
	// ApplyFieldList replaces the definition's field list with the desired
	// entries, attaching new fields and detaching dropped ones inside one
	// all-or-nothing transaction. Returns the resulting field count.
	ApplyFieldList(ctx context.Context, scheduleID models.ElementID, entries []models.ParameterItem) (int, error)

	// LoadParameterData returns the available and scheduled fields for a
	// schedule plus its category display name.
	LoadParameterData(ctx context.Context, scheduleID models.ElementID) (*models.ParameterData, error)
}

type fieldService struct {
	doc     host.Document
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// MultiCategoryName is the category display used for schedules without a
// single governing category.
const MultiCategoryName = "Multi-Category"

// NewFieldService creates a FieldService.
func NewFieldService(doc host.Document, cat *catalog.Catalog, logger *zap.Logger) FieldService {
	return &fieldService{
		doc:     doc,
		catalog: cat,
		logger:  logger.Named("field-service"),
	}
}

var _ FieldService = (*fieldService)(nil)

func (s *fieldService) ApplyFieldList(ctx context.Context, scheduleID models.ElementID, entries []models.ParameterItem) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	schedule, ok := s.doc.Schedule(scheduleID)
	if !ok {
		return 0, fmt.Errorf("schedule %d: %w", scheduleID, apperrors.ErrScheduleNotFound)
	}
	def := schedule.Definition()

	tx, err := s.doc.Begin("Update Schedule Fields")
	if err != nil {
		return 0, fmt.Errorf("begin field update: %w", err)
	}

	newOrder, err := s.buildOrder(def, entries)
	if err == nil {
		err = s.detachDropped(def, newOrder)
	}
	if err == nil {
		err = def.SetFieldOrder(newOrder)
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after field update error", zap.Error(rbErr))
		}
		return 0, fmt.Errorf("update schedule fields: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit field update: %w", err)
	}

	s.logger.Info("applied field list",
		zap.Int64("schedule_id", int64(scheduleID)),
		zap.Int("fields", len(newOrder)))
	return len(newOrder), nil
}

// buildOrder walks the desired entries in order, reusing existing field ids
// and attaching fresh ones for new descriptors.
func (s *fieldService) buildOrder(def host.ScheduleDefinition, entries []models.ParameterItem) ([]models.FieldID, error) {
	newOrder := make([]models.FieldID, 0, len(entries))
	for _, entry := range entries {
		if entry.Attached {
			newOrder = append(newOrder, entry.Field)
			continue
		}
		field, err := def.AddField(entry.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("attach field %q: %w", entry.Descriptor.Name, err)
		}
		newOrder = append(newOrder, field.FieldID())
	}
	return newOrder, nil
}

// detachDropped removes every currently attached field absent from the new
// order. Fields that already became invalid are skipped silently.
func (s *fieldService) detachDropped(def host.ScheduleDefinition, newOrder []models.FieldID) error {
	keep := make(map[models.FieldID]bool, len(newOrder))
	for _, id := range newOrder {
		keep[id] = true
	}
	for _, id := range def.FieldOrder() {
		if keep[id] {
			continue
		}
		if _, ok := def.Field(id); !ok {
			continue
		}
		if err := def.RemoveField(id); err != nil {
			return fmt.Errorf("detach field %d: %w", id, err)
		}
	}
	return nil
}

func (s *fieldService) LoadParameterData(ctx context.Context, scheduleID models.ElementID) (*models.ParameterData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	schedule, ok := s.doc.Schedule(scheduleID)
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", scheduleID, apperrors.ErrScheduleNotFound)
	}
	def := schedule.Definition()

	scheduled := s.catalog.ScheduledFields(def)
	already := s.catalog.ScheduledAttributeIDs(def)

	var available []models.ParameterItem
	for _, candidate := range s.catalog.AvailableFields(def, already) {
		available = append(available, models.NewField(candidate))
	}

	categoryName := MultiCategoryName
	if categoryID, ok := def.CategoryID(); ok {
		if name, ok := s.doc.CategoryName(categoryID); ok {
			categoryName = name
		}
	}

	return &models.ParameterData{
		Available:    available,
		Scheduled:    scheduled,
		CategoryName: categoryName,
	}, nil
}
