// Package engine wires the resolver, catalog, projector, sorting and
// mutation services behind the asynchronous request/completion surface the
// UI-integration layer consumes. Every document-touching operation is
// submitted to the single-writer dispatcher; the returned channel fires
// exactly once per request.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/catalog"
	"github.com/rk-tools/schedule-engine/pkg/dispatcher"
	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/projector"
	"github.com/rk-tools/schedule-engine/pkg/resolver"
	"github.com/rk-tools/schedule-engine/pkg/services"
	"github.com/rk-tools/schedule-engine/pkg/settings"
)

// Options tune engine construction.
type Options struct {
	// CatalogSampleLimit bounds catalog category sampling; zero selects the
	// catalog default.
	CatalogSampleLimit int
}

// Engine is the embeddable core: one instance per open host document.
type Engine struct {
	doc        host.Document
	dispatcher *dispatcher.Dispatcher
	fields     services.FieldService
	mutations  services.MutationService
	schedules  services.ScheduleService
	logger     *zap.Logger
}

// New builds an Engine over an injected host document and settings
// repository. Call Run on the document-owning goroutine before submitting
// requests.
func New(doc host.Document, repo settings.Repository, logger *zap.Logger, opts Options) *Engine {
	res := resolver.New(doc, logger)
	cat := catalog.New(doc, logger, opts.CatalogSampleLimit)
	proj := projector.New(doc, res, logger)

	return &Engine{
		doc:        doc,
		dispatcher: dispatcher.New(logger),
		fields:     services.NewFieldService(doc, cat, logger),
		mutations:  services.NewMutationService(doc, res, logger),
		schedules:  services.NewScheduleService(doc, proj, repo, logger),
		logger:     logger.Named("engine"),
	}
}

// Run executes submitted requests serially until ctx is done. It must run on
// the goroutine the host allows to mutate the document.
func (e *Engine) Run(ctx context.Context) {
	e.dispatcher.Run(ctx)
}

// Close stops the engine; queued requests complete with an error.
func (e *Engine) Close() {
	e.dispatcher.Close()
}

// UpdateFields replaces a schedule's field list with the desired entries.
// The completion carries the resulting field count. All-or-nothing: on error
// no field change is left committed.
func (e *Engine) UpdateFields(scheduleID models.ElementID, entries []models.ParameterItem) <-chan dispatcher.Outcome[int] {
	return dispatcher.Submit(e.dispatcher, "update-fields", func(ctx context.Context) (int, error) {
		return e.fields.ApplyFieldList(ctx, scheduleID, entries)
	})
}

// RenameBatch applies the rename items and reports aggregate counts. The
// batch commits even when some items fail.
func (e *Engine) RenameBatch(items []models.RenameItem) <-chan dispatcher.Outcome[models.MutationResult] {
	return dispatcher.Submit(e.dispatcher, "rename-batch", func(ctx context.Context) (models.MutationResult, error) {
		return e.mutations.RenameBatch(ctx, items)
	})
}

// UpdateValue writes one value to the same attribute on every target
// element. Commits only when at least one write succeeded.
func (e *Engine) UpdateValue(elementIDs []models.ElementID, attributeID models.AttributeID, newValue string) <-chan dispatcher.Outcome[models.MutationResult] {
	return dispatcher.Submit(e.dispatcher, "update-value", func(ctx context.Context) (models.MutationResult, error) {
		return e.mutations.UpdateValue(ctx, elementIDs, attributeID, newValue)
	})
}

// LoadParameterData returns a schedule's available and scheduled fields and
// its category display name.
func (e *Engine) LoadParameterData(scheduleID models.ElementID) <-chan dispatcher.Outcome[*models.ParameterData] {
	return dispatcher.Submit(e.dispatcher, "load-parameter-data", func(ctx context.Context) (*models.ParameterData, error) {
		return e.fields.LoadParameterData(ctx, scheduleID)
	})
}

// LoadSchedule projects the schedule into its raw table. Serialized with
// mutations, so the projection always observes one atomic snapshot.
func (e *Engine) LoadSchedule(scheduleID models.ElementID) <-chan dispatcher.Outcome[*models.ScheduleTable] {
	return dispatcher.Submit(e.dispatcher, "load-schedule", func(ctx context.Context) (*models.ScheduleTable, error) {
		return e.schedules.LoadSchedule(ctx, scheduleID)
	})
}

// LoadView projects the schedule and applies the itemize preference and
// saved sort criteria.
func (e *Engine) LoadView(scheduleID models.ElementID) <-chan dispatcher.Outcome[*models.ScheduleTable] {
	return dispatcher.Submit(e.dispatcher, "load-view", func(ctx context.Context) (*models.ScheduleTable, error) {
		return e.schedules.LoadView(ctx, scheduleID)
	})
}

// Itemized returns the schedule's itemize preference.
func (e *Engine) Itemized(scheduleID models.ElementID) bool {
	return e.schedules.Itemized(scheduleID)
}

// SetItemized records the schedule's itemize preference. Preference state is
// engine-local; no document access is involved.
func (e *Engine) SetItemized(scheduleID models.ElementID, itemized bool) {
	e.schedules.SetItemized(scheduleID, itemized)
}

// SortCriteria returns the saved sort criteria for a schedule.
func (e *Engine) SortCriteria(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error) {
	return e.schedules.SortCriteria(ctx, scheduleID)
}

// SaveSortCriteria persists sort criteria for a schedule.
func (e *Engine) SaveSortCriteria(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error {
	return e.schedules.SaveSortCriteria(ctx, scheduleID, criteria)
}

// RenameOptions lists the columns of a projected table that can serve as
// rename targets.
func (e *Engine) RenameOptions(table *models.ScheduleTable) []models.RenameOption {
	return e.schedules.RenameOptions(table)
}

// BuildRenamePreview derives the rename items a batch would execute for the
// selected rows. Pure: no document access.
func (e *Engine) BuildRenamePreview(table *models.ScheduleTable, rowIndexes []int, option models.RenameOption, transform models.RenameTransform) []models.RenameItem {
	return e.schedules.BuildRenamePreview(table, rowIndexes, option, transform)
}
