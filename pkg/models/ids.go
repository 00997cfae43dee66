package models

// ElementID is the stable identity of a host document element.
// Negative ids never identify real elements; InvalidElementID is the
// host's "no element" sentinel.
type ElementID int64

// InvalidElementID marks the absence of an element reference.
const InvalidElementID ElementID = -1

// IsValid reports whether the id can refer to a real element.
func (id ElementID) IsValid() bool {
	return id != InvalidElementID && id >= 0
}

// AttributeID identifies an attribute (parameter). Positive ids reference a
// user-defined attribute definition element; negative ids (other than the
// invalid sentinel) are intrinsic, host-reserved attributes.
type AttributeID int64

// InvalidAttributeID is the sentinel carried by intrinsic computed fields
// (e.g. the row-count field) that have no backing attribute.
const InvalidAttributeID AttributeID = -1

// IsIntrinsic reports whether the id is a host-reserved intrinsic attribute.
func (id AttributeID) IsIntrinsic() bool {
	return id < 0 && id != InvalidAttributeID
}

// IsUserDefined reports whether the id references a user-defined definition.
func (id AttributeID) IsUserDefined() bool {
	return id > 0
}

// FieldID identifies an attribute once attached to a schedule's ordered field
// list. FieldIDs live in a different namespace than AttributeIDs: two
// distinct FieldIDs may reference the same AttributeID if added independently.
type FieldID int64

// InvalidFieldID marks a detached or never-attached field.
const InvalidFieldID FieldID = -1

// CategoryID identifies the category governing which elements populate a
// schedule. InvalidCategoryID means the schedule spans multiple categories.
type CategoryID int64

// InvalidCategoryID marks a multi-category schedule (no single governing
// category).
const InvalidCategoryID CategoryID = -1
