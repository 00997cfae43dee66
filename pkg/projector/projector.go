// Package projector builds the rectangular, string-typed table for a
// schedule's current field list and element set, and derives the grouped
// itemization view from it.
package projector

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/resolver"
)

// Projector turns schedules into ScheduleTables.
type Projector struct {
	doc      host.Document
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// New creates a Projector sharing the given resolver.
func New(doc host.Document, res *resolver.Resolver, logger *zap.Logger) *Projector {
	return &Projector{
		doc:      doc,
		resolver: res,
		logger:   logger.Named("projector"),
	}
}

// Project builds the table for the schedule: synthetic identity columns
// first, then one column per visible field in definition order, one row per
// element. Cells that fail to resolve are empty strings; the per-column
// TypeFallback flag records whether any cell came from the companion type.
func (p *Projector) Project(schedule host.Schedule) *models.ScheduleTable {
	def := schedule.Definition()

	type column struct {
		name   string
		attrID models.AttributeID
	}
	var fieldColumns []column
	// The identity columns and the itemization count column are reserved so
	// a field sharing one of those names never shadows them. Suffix
	// candidates are re-checked until unique, since a field may already be
	// named like a generated suffix.
	used := map[string]bool{
		models.ColumnElementID: true,
		models.ColumnTypeName:  true,
		models.ColumnCount:     true,
	}
	for _, fieldID := range def.FieldOrder() {
		field, ok := def.Field(fieldID)
		if !ok || field.Hidden() {
			continue
		}
		name := field.Name()
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", field.Name(), n)
		}
		used[name] = true
		fieldColumns = append(fieldColumns, column{name: name, attrID: field.AttributeID()})
	}

	columns := make([]string, 0, len(fieldColumns)+2)
	columns = append(columns, models.ColumnElementID, models.ColumnTypeName)
	for _, col := range fieldColumns {
		columns = append(columns, col.name)
	}

	table := models.NewScheduleTable(schedule.ID(), columns)
	for _, col := range fieldColumns {
		table.AttributeIDs[col.name] = col.attrID
	}

	for _, element := range schedule.Elements() {
		row := make([]string, 0, len(columns))
		row = append(row, strconv.FormatInt(int64(element.ID()), 10))
		row = append(row, p.typeName(element))
		for _, col := range fieldColumns {
			cell := ""
			if res, ok := p.resolver.Resolve(element, col.attrID); ok {
				cell = res.Value
				if res.FromType {
					table.TypeFallback[col.name] = true
				}
			}
			row = append(row, cell)
		}
		table.AppendRow(row)
	}

	p.logger.Debug("projected schedule",
		zap.Int64("schedule_id", int64(schedule.ID())),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))
	return table
}

func (p *Projector) typeName(element host.Element) string {
	typeID, ok := element.TypeID()
	if !ok || !typeID.IsValid() {
		return ""
	}
	typeElem, ok := p.doc.Element(typeID)
	if !ok {
		return ""
	}
	return typeElem.Name()
}

// NumericColumns infers which columns hold numbers: a column is numeric iff
// every non-blank cell parses as a real number. Columns with no non-blank
// cells are text.
func NumericColumns(table *models.ScheduleTable) map[string]bool {
	numeric := make(map[string]bool, len(table.Columns))
	for i, name := range table.Columns {
		hasValue := false
		isNumeric := true
		for _, row := range table.Rows {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			hasValue = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isNumeric = false
				break
			}
		}
		numeric[name] = hasValue && isNumeric
	}
	return numeric
}
