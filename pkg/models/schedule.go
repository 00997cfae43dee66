package models

// Synthetic column names. Every projected table starts with the element
// identity column and the companion-type name column; the count column only
// exists on itemization-view output.
const (
	ColumnElementID = "ElementId"
	ColumnTypeName  = "TypeName"
	ColumnCount     = "Count"
)

// ScheduleTable is the rectangular, string-typed projection of a schedule:
// an ordered list of display-name columns and same-length rows.
type ScheduleTable struct {
	// ScheduleID identifies the schedule the table was projected from.
	ScheduleID ElementID `json:"schedule_id"`
	// Columns are ordered display names, beginning with ElementId, TypeName.
	Columns []string `json:"columns"`
	// AttributeIDs maps field-derived columns (by column name) to their
	// backing attribute. Synthetic columns have no entry.
	AttributeIDs map[string]AttributeID `json:"attribute_ids"`
	// Rows hold one cell per column, already coerced to display strings.
	Rows [][]string `json:"rows"`
	// TypeFallback records, per column name, whether any cell in that column
	// was resolved through the companion type rather than the instance.
	// Edits to such columns cascade to every element of the type.
	TypeFallback map[string]bool `json:"type_fallback"`
}

// NewScheduleTable builds an empty table for the given columns.
func NewScheduleTable(scheduleID ElementID, columns []string) *ScheduleTable {
	return &ScheduleTable{
		ScheduleID:   scheduleID,
		Columns:      append([]string(nil), columns...),
		AttributeIDs: make(map[string]AttributeID),
		Rows:         nil,
		TypeFallback: make(map[string]bool),
	}
}

// ColumnIndex returns the position of the named column, or -1.
func (t *ScheduleTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row, padding or truncating to column count so the table
// stays rectangular even if a caller hands over a short row.
func (t *ScheduleTable) AppendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy. Derived views (itemization, sorting) operate on
// clones so the source snapshot is never mutated.
func (t *ScheduleTable) Clone() *ScheduleTable {
	if t == nil {
		return nil
	}
	out := &ScheduleTable{
		ScheduleID:   t.ScheduleID,
		Columns:      append([]string(nil), t.Columns...),
		AttributeIDs: make(map[string]AttributeID, len(t.AttributeIDs)),
		Rows:         make([][]string, len(t.Rows)),
		TypeFallback: make(map[string]bool, len(t.TypeFallback)),
	}
	for k, v := range t.AttributeIDs {
		out.AttributeIDs[k] = v
	}
	for k, v := range t.TypeFallback {
		out.TypeFallback[k] = v
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
