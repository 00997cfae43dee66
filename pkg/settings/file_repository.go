package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// savedScheduleSort is the on-disk record: one entry per schedule.
type savedScheduleSort struct {
	ScheduleID int64                  `yaml:"schedule_id"`
	Criteria   []models.SortCriterion `yaml:"criteria"`
}

// FileRepository stores sort criteria in a single YAML file. Writes are
// atomic (temp file + rename) so a crash never leaves a half-written file.
type FileRepository struct {
	path string

	mu sync.Mutex
}

// NewFileRepository creates a repository over the given file path. The file
// and its directory are created on first Save.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

var _ Repository = (*FileRepository)(nil)

// Load returns the saved criteria for a schedule, or apperrors.ErrNotFound
// when neither the file nor an entry for the schedule exists.
func (r *FileRepository) Load(ctx context.Context, scheduleID models.ElementID) ([]models.SortCriterion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ScheduleID == int64(scheduleID) {
			return append([]models.SortCriterion(nil), record.Criteria...), nil
		}
	}
	return nil, fmt.Errorf("sort criteria for schedule %d: %w", scheduleID, apperrors.ErrNotFound)
}

// Save upserts the schedule's entry and rewrites the file atomically.
func (r *FileRepository) Save(ctx context.Context, scheduleID models.ElementID, criteria []models.SortCriterion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return err
	}

	updated := false
	for i := range records {
		if records[i].ScheduleID == int64(scheduleID) {
			records[i].Criteria = criteria
			updated = true
			break
		}
	}
	if !updated {
		records = append(records, savedScheduleSort{
			ScheduleID: int64(scheduleID),
			Criteria:   criteria,
		})
	}
	return r.write(records)
}

func (r *FileRepository) read() ([]savedScheduleSort, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sort settings %s: %w", r.path, err)
	}
	var records []savedScheduleSort
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse sort settings %s: %w", r.path, err)
	}
	return records, nil
}

func (r *FileRepository) write(records []savedScheduleSort) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode sort settings: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".sort-settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp settings file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace sort settings %s: %w", r.path, err)
	}
	return nil
}
