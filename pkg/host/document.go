// Package host declares the collaborator boundary to the document that owns
// all elements, attributes and schedules. The engine only ever consumes these
// interfaces; it never creates or destroys elements and never reaches for a
// process-wide document singleton. Host integrations (and the in-memory
// document in pkg/testhelpers) provide the implementations.
package host

import (
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// Document is the root of the collaborator boundary. The host guarantees a
// single writer: at most one transaction is in flight at any time, and all
// mutations happen on the document-owning goroutine.
type Document interface {
	// Element returns the element with the given stable id.
	Element(id models.ElementID) (Element, bool)

	// AttributeDefinition returns the user-defined attribute definition
	// referenced by a positive attribute id.
	AttributeDefinition(id models.AttributeID) (AttributeDefinition, bool)

	// Schedule returns the schedule with the given id.
	Schedule(id models.ElementID) (Schedule, bool)

	// CategoryName returns the display name of a category.
	CategoryName(id models.CategoryID) (string, bool)

	// FilterableAttributes returns the set of attribute ids the host allows
	// as filters for a category, or ok=false when the set cannot be computed.
	FilterableAttributes(id models.CategoryID) ([]models.AttributeID, bool)

	// ElementsOfCategory enumerates instance elements of a category, used by
	// the catalog to sample which attributes a category actually carries.
	ElementsOfCategory(id models.CategoryID) []Element

	// Begin opens a named transaction. The engine holds at most one open
	// transaction at a time.
	Begin(name string) (Transaction, error)
}

// Transaction is the host's atomic mutation scope. Rollback after Commit
// (and vice versa) is a host-side error.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Element is one host-owned record with a stable identity and an enumerable
// attribute set.
type Element interface {
	ID() models.ElementID
	Name() string

	// TypeID returns the companion type element's id, or ok=false for
	// elements without a type.
	TypeID() (models.ElementID, bool)

	// Attributes enumerates every attribute currently on the element.
	Attributes() []Attribute

	// AttributeByName looks an attribute up by display name.
	AttributeByName(name string) (Attribute, bool)

	// IntrinsicAttribute looks an attribute up by a negative intrinsic id.
	IntrinsicAttribute(id models.AttributeID) (Attribute, bool)
}

// AttributeDefinition is the document-level definition of a user-defined
// attribute, which carries the display name instances are looked up by.
type AttributeDefinition interface {
	ID() models.AttributeID
	Name() string
}

// Attribute is a readable, possibly writable, typed value handle on one
// element. Writes outside a transaction are host-side errors.
type Attribute interface {
	ID() models.AttributeID
	Name() string
	Kind() models.StorageKind
	ReadOnly() bool

	Text() string
	Integer() int64
	Real() float64
	Reference() models.ElementID

	// Formatted returns the host's unit-aware display string for Real
	// values, or ok=false when no formatting is available.
	Formatted() (string, bool)

	SetText(value string) error
	SetInteger(value int64) error
	SetReal(value float64) error

	// SetRealFromString parses a unit-aware string ("2.5 m") and writes the
	// value, returning false when the host cannot parse it. Preferred over
	// SetReal for user-entered text.
	SetRealFromString(value string) bool
}

// Schedule is a host view that projects elements of one category (or of all
// categories) into a table via an ordered field list.
type Schedule interface {
	ID() models.ElementID
	Name() string
	Definition() ScheduleDefinition

	// Elements returns the elements populating the schedule's table.
	Elements() []Element
}

// ScheduleDefinition owns the ordered, duplicate-free field list of a
// schedule. Mutations require an open transaction.
type ScheduleDefinition interface {
	// CategoryID returns the governing category, or ok=false for
	// multi-category schedules.
	CategoryID() (models.CategoryID, bool)

	// FieldOrder returns the current ordered field ids.
	FieldOrder() []models.FieldID

	// Field returns an attached field by id.
	Field(id models.FieldID) (ScheduleField, bool)

	// SchedulableFields enumerates candidate fields addable to the schedule.
	SchedulableFields() []models.SchedulableField

	// AddField attaches a candidate, minting a fresh FieldID.
	AddField(descriptor models.SchedulableField) (ScheduleField, error)

	// RemoveField detaches a field.
	RemoveField(id models.FieldID) error

	// SetFieldOrder persists a new ordering over the attached fields.
	SetFieldOrder(order []models.FieldID) error
}

// ScheduleField is one attached entry of a schedule's field list.
type ScheduleField interface {
	FieldID() models.FieldID
	AttributeID() models.AttributeID
	Name() string
	Hidden() bool
}
