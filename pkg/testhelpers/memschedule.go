package testhelpers

import (
	"fmt"

	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// MemSchedule is an in-memory schedule view.
type MemSchedule struct {
	id       models.ElementID
	name     string
	def      *MemScheduleDefinition
	elements []models.ElementID
	doc      *MemDocument
}

var _ host.Schedule = (*MemSchedule)(nil)

func (s *MemSchedule) ID() models.ElementID { return s.id }
func (s *MemSchedule) Name() string { return s.name }
func (s *MemSchedule) Definition() host.ScheduleDefinition { return s.def }

func (s *MemSchedule) Elements() []host.Element {
	out := make([]host.Element, 0, len(s.elements))
	for _, id := range s.elements {
		if el, ok := s.doc.elements[id]; ok {
			out = append(out, el)
		}
	}
	return out
}

// MemScheduleDefinition holds the field layout and candidate fields.
type MemScheduleDefinition struct {
	category    models.CategoryID
	hasCategory bool
	fields      []*MemScheduleField
	candidates  []models.SchedulableField
	nextFieldID models.FieldID

	// AttachCalls and DetachCalls count structural mutations, letting tests
	// assert that re-applying an unchanged field list touches nothing.
	AttachCalls int
	DetachCalls int
}

var _ host.ScheduleDefinition = (*MemScheduleDefinition)(nil)

func (d *MemScheduleDefinition) CategoryID() (models.CategoryID, bool) {
	if !d.hasCategory {
		return models.InvalidCategoryID, false
	}
	return d.category, true
}

func (d *MemScheduleDefinition) FieldOrder() []models.FieldID {
	out := make([]models.FieldID, len(d.fields))
	for i, f := range d.fields {
		out[i] = f.id
	}
	return out
}

func (d *MemScheduleDefinition) Field(id models.FieldID) (host.ScheduleField, bool) {
	for _, f := range d.fields {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}

func (d *MemScheduleDefinition) SchedulableFields() []models.SchedulableField {
	return append([]models.SchedulableField(nil), d.candidates...)
}

func (d *MemScheduleDefinition) AddField(descriptor models.SchedulableField) (host.ScheduleField, error) {
	for _, f := range d.fields {
		if f.attribute == descriptor.AttributeID && f.attribute != models.InvalidAttributeID {
			return nil, fmt.Errorf("field %q already scheduled", descriptor.Name)
		}
	}
	d.AttachCalls++
	id := d.nextFieldID
	d.nextFieldID++
	f := &MemScheduleField{
		id:        id,
		attribute: descriptor.AttributeID,
		name:      descriptor.Name,
	}
	d.fields = append(d.fields, f)
	return f, nil
}

func (d *MemScheduleDefinition) RemoveField(id models.FieldID) error {
	for i, f := range d.fields {
		if f.id == id {
			d.DetachCalls++
			d.fields = append(d.fields[:i], d.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("field %d not scheduled", id)
}

func (d *MemScheduleDefinition) SetFieldOrder(order []models.FieldID) error {
	if len(order) != len(d.fields) {
		return fmt.Errorf("order names %d fields, schedule has %d", len(order), len(d.fields))
	}
	byID := make(map[models.FieldID]*MemScheduleField, len(d.fields))
	for _, f := range d.fields {
		byID[f.id] = f
	}
	reordered := make([]*MemScheduleField, 0, len(order))
	for _, id := range order {
		f, ok := byID[id]
		if !ok {
			return fmt.Errorf("field %d not scheduled", id)
		}
		reordered = append(reordered, f)
	}
	d.fields = reordered
	return nil
}

// MemScheduleField is one scheduled column.
type MemScheduleField struct {
	id        models.FieldID
	attribute models.AttributeID
	name      string
	hidden    bool
}

var _ host.ScheduleField = (*MemScheduleField)(nil)

func (f *MemScheduleField) FieldID() models.FieldID { return f.id }
func (f *MemScheduleField) AttributeID() models.AttributeID { return f.attribute }
func (f *MemScheduleField) Name() string { return f.name }
func (f *MemScheduleField) Hidden() bool { return f.hidden }

// SetHidden flips column visibility, for projector tests.
func (f *MemScheduleField) SetHidden(hidden bool) { f.hidden = hidden }
