// Package testhelpers provides an in-memory host.Document with real
// transaction semantics (rollback restores prior state) plus builders for
// elements, attributes and schedules. Tests across the engine packages share
// it instead of talking to a live host.
package testhelpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// MemDocument is an in-memory host document.
type MemDocument struct {
	elements    map[models.ElementID]*MemElement
	order       []models.ElementID
	definitions map[models.AttributeID]*MemAttributeDefinition
	schedules   map[models.ElementID]*MemSchedule
	categories  map[models.CategoryID]*memCategory

	// FailCommit makes the next Commit return an error, for exercising the
	// critical-failure paths.
	FailCommit bool

	active *memTransaction
}

type memCategory struct {
	name            string
	filterable      []models.AttributeID
	filterableKnown bool
}

// NewMemDocument creates an empty document.
func NewMemDocument() *MemDocument {
	return &MemDocument{
		elements:    make(map[models.ElementID]*MemElement),
		definitions: make(map[models.AttributeID]*MemAttributeDefinition),
		schedules:   make(map[models.ElementID]*MemSchedule),
		categories:  make(map[models.CategoryID]*memCategory),
	}
}

var _ host.Document = (*MemDocument)(nil)

func (d *MemDocument) Element(id models.ElementID) (host.Element, bool) {
	el, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (d *MemDocument) AttributeDefinition(id models.AttributeID) (host.AttributeDefinition, bool) {
	def, ok := d.definitions[id]
	if !ok {
		return nil, false
	}
	return def, true
}

func (d *MemDocument) Schedule(id models.ElementID) (host.Schedule, bool) {
	s, ok := d.schedules[id]
	if !ok {
		return nil, false
	}
	return s, true
}

func (d *MemDocument) CategoryName(id models.CategoryID) (string, bool) {
	cat, ok := d.categories[id]
	if !ok {
		return "", false
	}
	return cat.name, true
}

func (d *MemDocument) FilterableAttributes(id models.CategoryID) ([]models.AttributeID, bool) {
	cat, ok := d.categories[id]
	if !ok || !cat.filterableKnown {
		return nil, false
	}
	return append([]models.AttributeID(nil), cat.filterable...), true
}

func (d *MemDocument) ElementsOfCategory(id models.CategoryID) []host.Element {
	var out []host.Element
	for _, elID := range d.order {
		el := d.elements[elID]
		if el.category == id {
			out = append(out, el)
		}
	}
	return out
}

// Begin snapshots every attribute value and schedule field list so Rollback
// can restore them. The real host guarantees a single writer; the fake
// enforces it by rejecting nested transactions.
func (d *MemDocument) Begin(name string) (host.Transaction, error) {
	if d.active != nil {
		return nil, fmt.Errorf("transaction %q already in flight", d.active.name)
	}
	tx := &memTransaction{doc: d, name: name}
	tx.snapshot()
	d.active = tx
	return tx, nil
}

type attributeState struct {
	text string
	num  int64
	real float64
	ref  models.ElementID
}

type definitionState struct {
	fields      []*MemScheduleField
	nextFieldID models.FieldID
}

type memTransaction struct {
	doc  *MemDocument
	name string
	done bool

	attributes  map[*MemAttribute]attributeState
	definitions map[*MemScheduleDefinition]definitionState
}

func (t *memTransaction) snapshot() {
	t.attributes = make(map[*MemAttribute]attributeState)
	for _, el := range t.doc.elements {
		for _, attr := range el.attributes {
			t.attributes[attr] = attributeState{
				text: attr.text, num: attr.num, real: attr.real, ref: attr.ref,
			}
		}
	}
	t.definitions = make(map[*MemScheduleDefinition]definitionState)
	for _, s := range t.doc.schedules {
		t.definitions[s.def] = definitionState{
			fields:      append([]*MemScheduleField(nil), s.def.fields...),
			nextFieldID: s.def.nextFieldID,
		}
	}
}

func (t *memTransaction) Commit() error {
	if t.done {
		return fmt.Errorf("transaction %q already finished", t.name)
	}
	t.done = true
	t.doc.active = nil
	if t.doc.FailCommit {
		t.doc.FailCommit = false
		// Failed commits leave nothing behind.
		t.restore()
		return fmt.Errorf("commit %q failed", t.name)
	}
	return nil
}

func (t *memTransaction) Rollback() error {
	if t.done {
		// Rollback after a failed Commit is tolerated; state was already
		// restored.
		return nil
	}
	t.done = true
	t.doc.active = nil
	t.restore()
	return nil
}

func (t *memTransaction) restore() {
	for attr, state := range t.attributes {
		attr.text = state.text
		attr.num = state.num
		attr.real = state.real
		attr.ref = state.ref
	}
	for def, state := range t.definitions {
		def.fields = append([]*MemScheduleField(nil), state.fields...)
		def.nextFieldID = state.nextFieldID
	}
}

// MemElement is an in-memory element.
type MemElement struct {
	doc        *MemDocument
	id         models.ElementID
	name       string
	typeID     models.ElementID
	hasType    bool
	category   models.CategoryID
	attributes []*MemAttribute
}

var _ host.Element = (*MemElement)(nil)

func (e *MemElement) ID() models.ElementID { return e.id }
func (e *MemElement) Name() string { return e.name }

func (e *MemElement) TypeID() (models.ElementID, bool) {
	if !e.hasType {
		return models.InvalidElementID, false
	}
	return e.typeID, true
}

func (e *MemElement) Attributes() []host.Attribute {
	out := make([]host.Attribute, len(e.attributes))
	for i, a := range e.attributes {
		out[i] = a
	}
	return out
}

func (e *MemElement) AttributeByName(name string) (host.Attribute, bool) {
	for _, a := range e.attributes {
		if a.name == name {
			return a, true
		}
	}
	return nil, false
}

func (e *MemElement) IntrinsicAttribute(id models.AttributeID) (host.Attribute, bool) {
	if !id.IsIntrinsic() {
		return nil, false
	}
	for _, a := range e.attributes {
		if a.id == id {
			return a, true
		}
	}
	return nil, false
}

// MemAttributeDefinition is a user-defined attribute definition.
type MemAttributeDefinition struct {
	id   models.AttributeID
	name string
}

var _ host.AttributeDefinition = (*MemAttributeDefinition)(nil)

func (d *MemAttributeDefinition) ID() models.AttributeID { return d.id }
func (d *MemAttributeDefinition) Name() string { return d.name }

// MemAttribute is an in-memory typed value handle.
type MemAttribute struct {
	id       models.AttributeID
	name     string
	kind     models.StorageKind
	readOnly bool
	unit     string

	// PanicOnWrite simulates a host fault escaping the per-item boundary.
	PanicOnWrite bool

	text string
	num  int64
	real float64
	ref  models.ElementID
}

var _ host.Attribute = (*MemAttribute)(nil)

func (a *MemAttribute) ID() models.AttributeID { return a.id }
func (a *MemAttribute) Name() string { return a.name }
func (a *MemAttribute) Kind() models.StorageKind { return a.kind }
func (a *MemAttribute) ReadOnly() bool { return a.readOnly }

func (a *MemAttribute) Text() string { return a.text }
func (a *MemAttribute) Integer() int64 { return a.num }
func (a *MemAttribute) Real() float64 { return a.real }
func (a *MemAttribute) Reference() models.ElementID { return a.ref }

func (a *MemAttribute) Formatted() (string, bool) {
	if a.unit == "" {
		return "", false
	}
	return fmt.Sprintf("%s %s", strconv.FormatFloat(a.real, 'g', -1, 64), a.unit), true
}

func (a *MemAttribute) SetText(value string) error {
	if err := a.checkWrite(); err != nil {
		return err
	}
	a.text = value
	return nil
}

func (a *MemAttribute) SetInteger(value int64) error {
	if err := a.checkWrite(); err != nil {
		return err
	}
	a.num = value
	return nil
}

func (a *MemAttribute) SetReal(value float64) error {
	if err := a.checkWrite(); err != nil {
		return err
	}
	a.real = value
	return nil
}

// SetRealFromString accepts a bare number or a "value unit" pair matching
// the attribute's unit.
func (a *MemAttribute) SetRealFromString(value string) bool {
	if a.checkWrite() != nil {
		return false
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return false
	}
	if len(fields) == 2 && a.unit != "" && fields[1] != a.unit {
		return false
	}
	if len(fields) > 2 {
		return false
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return false
	}
	a.real = f
	return true
}

func (a *MemAttribute) checkWrite() error {
	if a.PanicOnWrite {
		panic(fmt.Sprintf("host fault writing attribute %q", a.name))
	}
	if a.readOnly {
		return fmt.Errorf("attribute %q is read-only", a.name)
	}
	return nil
}
