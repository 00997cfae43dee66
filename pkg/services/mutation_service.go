package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/logging"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/resolver"
)

// MutationService applies batched value changes across many elements inside
// one transaction, tracking per-item outcomes as aggregate counts.
//
// The two operations deliberately keep different commit policies, matching
// observed behavior: a rename batch commits even when some items fail, while
// a multi-target update rolls back unless at least one write landed.
type MutationService interface {
	// RenameBatch applies the rename items per element. Items whose value is
	// unchanged are skipped and never counted. Returns a non-nil error only
	// when the whole transaction had to be rolled back.
	RenameBatch(ctx context.Context, items []models.RenameItem) (models.MutationResult, error)

	// UpdateValue writes one value to the same attribute on every target
	// element. Commits only if at least one write succeeded; otherwise the
	// transaction is rolled back and the error explains why.
	UpdateValue(ctx context.Context, elementIDs []models.ElementID, attributeID models.AttributeID, newValue string) (models.MutationResult, error)
}

type mutationService struct {
	doc      host.Document
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// NewMutationService creates a MutationService.
func NewMutationService(doc host.Document, res *resolver.Resolver, logger *zap.Logger) MutationService {
	return &mutationService{
		doc:      doc,
		resolver: res,
		logger:   logger.Named("mutation-service"),
	}
}

var _ MutationService = (*mutationService)(nil)

func (s *mutationService) RenameBatch(ctx context.Context, items []models.RenameItem) (result models.MutationResult, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return models.MutationResult{}, ctxErr
	}

	// Group by element so each target is looked up once, preserving the
	// first-appearance order of elements.
	grouped := make(map[models.ElementID][]models.RenameItem)
	var order []models.ElementID
	for _, item := range items {
		if item.Unchanged() {
			continue
		}
		if _, ok := grouped[item.ElementID]; !ok {
			order = append(order, item.ElementID)
		}
		grouped[item.ElementID] = append(grouped[item.ElementID], item)
	}
	if len(order) == 0 {
		return models.MutationResult{}, nil
	}

	tx, err := s.doc.Begin("Batch Rename Parameters")
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("begin rename batch: %w", err)
	}

	// A panic escaping the per-item boundary is the one unrecoverable case:
	// roll everything back and report it as the sole failure.
	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed after host panic", zap.Error(rbErr))
			}
			result = models.MutationResult{FailCount: 1, LastError: fmt.Sprintf("critical error: %v", r)}
			err = apperrors.ErrCriticalFailure
		}
	}()

	for _, elementID := range order {
		group := grouped[elementID]
		element, ok := s.doc.Element(elementID)
		if !ok {
			result.FailCount += len(group)
			result.LastError = fmt.Sprintf("element %d: %v", elementID, apperrors.ErrElementNotFound)
			continue
		}
		for _, item := range group {
			if setErr := s.resolver.SetValueByName(element, item.AttributeName, item.IsTypeAttribute, item.New); setErr != nil {
				result.FailCount++
				result.LastError = setErr.Error()
				continue
			}
			result.SuccessCount++
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after commit error", zap.Error(rbErr))
		}
		result = models.MutationResult{FailCount: 1, LastError: commitErr.Error()}
		return result, fmt.Errorf("commit rename batch: %w", apperrors.ErrCriticalFailure)
	}

	s.logger.Info("rename batch finished",
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailCount))
	return result, nil
}

func (s *mutationService) UpdateValue(ctx context.Context, elementIDs []models.ElementID, attributeID models.AttributeID, newValue string) (models.MutationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.MutationResult{}, err
	}
	if len(elementIDs) == 0 {
		return models.MutationResult{}, fmt.Errorf("update value: no target elements: %w", apperrors.ErrNotFound)
	}

	tx, err := s.doc.Begin("Update Parameter Value")
	if err != nil {
		return models.MutationResult{}, fmt.Errorf("begin value update: %w", err)
	}

	var result models.MutationResult
	for _, elementID := range elementIDs {
		element, ok := s.doc.Element(elementID)
		if !ok {
			result.FailCount++
			result.LastError = fmt.Sprintf("element %d: %v", elementID, apperrors.ErrElementNotFound)
			continue
		}
		if setErr := s.resolver.SetValue(element, attributeID, newValue); setErr != nil {
			result.FailCount++
			result.LastError = setErr.Error()
			continue
		}
		result.SuccessCount++
	}

	if result.SuccessCount == 0 {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after zero-success update", zap.Error(rbErr))
		}
		if result.LastError == "" {
			result.LastError = "failed to set parameter value"
		}
		return result, fmt.Errorf("update value on %d element(s): %s: %w", len(elementIDs), result.LastError, apperrors.ErrPartialFailure)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed after commit error", zap.Error(rbErr))
		}
		return models.MutationResult{FailCount: len(elementIDs), LastError: commitErr.Error()},
			fmt.Errorf("commit value update: %w", apperrors.ErrCriticalFailure)
	}

	s.logger.Info("value update finished",
		zap.Int64("attribute_id", int64(attributeID)),
		zap.String("value", logging.TruncateValue(newValue)),
		zap.Int("success", result.SuccessCount),
		zap.Int("failed", result.FailCount))
	return result, nil
}
