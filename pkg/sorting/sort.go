// Package sorting applies ordered (column, direction) criteria to projected
// tables and to flat element-record lists.
package sorting

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/projector"
)

// Table returns a sorted copy of the table. Criteria apply as a multi-key
// stable sort with criteria[0] dominant and later entries breaking ties.
// Levels naming the "(none)" sentinel or an unknown column are skipped.
// Columns inferred numeric compare as numbers, everything else as
// case-insensitive strings.
func Table(table *models.ScheduleTable, criteria []models.SortCriterion) *models.ScheduleTable {
	out := table.Clone()

	type level struct {
		index     int
		numeric   bool
		ascending bool
	}
	numeric := projector.NumericColumns(table)
	var levels []level
	for _, c := range criteria {
		if !c.Active() {
			continue
		}
		idx := out.ColumnIndex(c.Column)
		if idx < 0 {
			continue
		}
		levels = append(levels, level{index: idx, numeric: numeric[c.Column], ascending: c.Ascending})
	}
	if len(levels) == 0 {
		return out
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		for _, l := range levels {
			cmp := compareCells(out.Rows[i][l.index], out.Rows[j][l.index], l.numeric)
			if cmp == 0 {
				continue
			}
			if l.ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	return out
}

// Records sorts a flat element-record list with the same criteria semantics
// as Table. The fixed display names "Element Number" and "Element Name"
// resolve to the record's identity fields, so consumers can reuse criteria
// built against either representation.
func Records(records []models.ElementRecord, criteria []models.SortCriterion) []models.ElementRecord {
	out := append([]models.ElementRecord(nil), records...)

	type level struct {
		key       func(models.ElementRecord) string
		ascending bool
	}
	var levels []level
	for _, c := range criteria {
		if !c.Active() {
			continue
		}
		switch c.Column {
		case models.SortAliasElementNumber:
			levels = append(levels, level{key: func(r models.ElementRecord) string { return r.Number }, ascending: c.Ascending})
		case models.SortAliasElementName:
			levels = append(levels, level{key: func(r models.ElementRecord) string { return r.Name }, ascending: c.Ascending})
		}
	}
	if len(levels) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, l := range levels {
			cmp := compareCells(l.key(out[i]), l.key(out[j]), false)
			if cmp == 0 {
				continue
			}
			if l.ascending {
				return cmp < 0
			}
			return cmp > 0
		}
		return false
	})
	return out
}

// compareCells orders blanks first, then by numeric or case-insensitive
// string value.
func compareCells(a, b string, numeric bool) int {
	if numeric {
		af, aerr := strconv.ParseFloat(strings.TrimSpace(a), 64)
		bf, berr := strconv.ParseFloat(strings.TrimSpace(b), 64)
		switch {
		case aerr != nil && berr != nil:
			return 0
		case aerr != nil:
			return -1
		case berr != nil:
			return 1
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
