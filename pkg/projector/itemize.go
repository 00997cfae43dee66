package projector

import (
	"strconv"

	"github.com/rk-tools/schedule-engine/pkg/models"
)

// View derives the presentation table for the itemize toggle. Itemized view
// is the source snapshot unchanged; the non-itemized view is GroupByType.
// The toggle is repeatable: both branches leave the source table untouched.
func View(table *models.ScheduleTable, itemize bool) *models.ScheduleTable {
	if itemize {
		return table
	}
	return GroupByType(table)
}

// GroupByType collapses the table to one row per distinct TypeName value
// (exact string match, empty string is its own group), keeping each group's
// first row verbatim and appending a synthetic Count column with the group
// cardinality. Output order is first-appearance order of each type name.
func GroupByType(table *models.ScheduleTable) *models.ScheduleTable {
	out := table.Clone()
	out.Columns = append(out.Columns, models.ColumnCount)
	out.Rows = nil

	typeIdx := table.ColumnIndex(models.ColumnTypeName)

	type group struct {
		first []string
		count int
	}
	var order []string
	groups := map[string]*group{}
	for _, row := range table.Rows {
		key := ""
		if typeIdx >= 0 {
			key = row[typeIdx]
		} else {
			// No type column to partition by: every row is its own group.
			key = strconv.Itoa(len(order))
		}
		g, ok := groups[key]
		if !ok {
			g = &group{first: row}
			groups[key] = g
			order = append(order, key)
		}
		g.count++
	}

	for _, key := range order {
		g := groups[key]
		row := append(append([]string(nil), g.first...), strconv.Itoa(g.count))
		out.Rows = append(out.Rows, row)
	}
	return out
}

// ExpandedRowCount returns the number of source rows a grouped table stands
// for: the sum of its Count column. Tables without a Count column count one
// per row.
func ExpandedRowCount(table *models.ScheduleTable) int {
	countIdx := table.ColumnIndex(models.ColumnCount)
	if countIdx < 0 {
		return len(table.Rows)
	}
	total := 0
	for _, row := range table.Rows {
		n, err := strconv.Atoi(row[countIdx])
		if err != nil {
			n = 1
		}
		total += n
	}
	return total
}
