package testhelpers

import (
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// AttributeSpec describes an attribute to attach to an element.
type AttributeSpec struct {
	ID       models.AttributeID
	Name     string
	Kind     models.StorageKind
	ReadOnly bool
	Unit     string

	Text      string
	Integer   int64
	Real      float64
	Reference models.ElementID
}

// AddCategory registers a category with a known filterable attribute set.
func (d *MemDocument) AddCategory(id models.CategoryID, name string, filterable ...models.AttributeID) {
	d.categories[id] = &memCategory{
		name:            name,
		filterable:      append([]models.AttributeID(nil), filterable...),
		filterableKnown: true,
	}
}

// AddOpaqueCategory registers a category whose filterable set is unknown.
func (d *MemDocument) AddOpaqueCategory(id models.CategoryID, name string) {
	d.categories[id] = &memCategory{name: name}
}

// AddAttributeDefinition registers a user-defined attribute definition.
func (d *MemDocument) AddAttributeDefinition(id models.AttributeID, name string) {
	d.definitions[id] = &MemAttributeDefinition{id: id, name: name}
}

// AddElement creates an element without a companion type.
func (d *MemDocument) AddElement(id models.ElementID, name string, category models.CategoryID) *MemElement {
	el := &MemElement{doc: d, id: id, name: name, category: category}
	d.elements[id] = el
	d.order = append(d.order, id)
	return el
}

// AddTypedElement creates an element bound to a companion type element.
func (d *MemDocument) AddTypedElement(id models.ElementID, name string, category models.CategoryID, typeID models.ElementID) *MemElement {
	el := d.AddElement(id, name, category)
	el.typeID = typeID
	el.hasType = true
	return el
}

// AddAttribute attaches an attribute and returns it for later inspection.
func (e *MemElement) AddAttribute(spec AttributeSpec) *MemAttribute {
	attr := &MemAttribute{
		id:       spec.ID,
		name:     spec.Name,
		kind:     spec.Kind,
		readOnly: spec.ReadOnly,
		unit:     spec.Unit,
		text:     spec.Text,
		num:      spec.Integer,
		real:     spec.Real,
		ref:      spec.Reference,
	}
	e.attributes = append(e.attributes, attr)
	return attr
}

// AddText attaches a text attribute.
func (e *MemElement) AddText(id models.AttributeID, name, value string) *MemAttribute {
	return e.AddAttribute(AttributeSpec{ID: id, Name: name, Kind: models.KindText, Text: value})
}

// AddInteger attaches an integer attribute.
func (e *MemElement) AddInteger(id models.AttributeID, name string, value int64) *MemAttribute {
	return e.AddAttribute(AttributeSpec{ID: id, Name: name, Kind: models.KindInteger, Integer: value})
}

// AddReal attaches a real attribute, optionally unit-formatted.
func (e *MemElement) AddReal(id models.AttributeID, name string, value float64, unit string) *MemAttribute {
	return e.AddAttribute(AttributeSpec{ID: id, Name: name, Kind: models.KindReal, Real: value, Unit: unit})
}

// AddSchedule creates a schedule over the given category and element set.
func (d *MemDocument) AddSchedule(id models.ElementID, name string, category models.CategoryID, elementIDs ...models.ElementID) *MemSchedule {
	s := &MemSchedule{
		id:   id,
		name: name,
		doc:  d,
		def: &MemScheduleDefinition{
			category:    category,
			hasCategory: true,
			nextFieldID: 1,
		},
		elements: append([]models.ElementID(nil), elementIDs...),
	}
	d.schedules[id] = s
	return s
}

// AddMultiCategorySchedule creates a schedule with no single category.
func (d *MemDocument) AddMultiCategorySchedule(id models.ElementID, name string, elementIDs ...models.ElementID) *MemSchedule {
	s := d.AddSchedule(id, name, models.InvalidCategoryID, elementIDs...)
	s.def.hasCategory = false
	return s
}

// Def exposes the concrete definition for instrumentation assertions.
func (s *MemSchedule) Def() *MemScheduleDefinition { return s.def }

// AddCandidate registers a schedulable field candidate on the definition.
func (d *MemScheduleDefinition) AddCandidate(field models.SchedulableField) {
	d.candidates = append(d.candidates, field)
}

// ScheduleField attaches a field directly, bypassing the attach counter, so
// tests can build a baseline layout before measuring mutations.
func (d *MemScheduleDefinition) ScheduleField(attribute models.AttributeID, name string) *MemScheduleField {
	id := d.nextFieldID
	d.nextFieldID++
	f := &MemScheduleField{id: id, attribute: attribute, name: name}
	d.fields = append(d.fields, f)
	return f
}

// ResetCounters clears the attach and detach instrumentation.
func (d *MemScheduleDefinition) ResetCounters() {
	d.AttachCalls = 0
	d.DetachCalls = 0
}
