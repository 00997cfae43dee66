package models

// SchedulableField describes a candidate attribute that may be attached to a
// schedule but is not yet part of its field list.
type SchedulableField struct {
	// Name is the attribute's display name.
	Name string `json:"name"`
	// AttributeID references the backing attribute definition.
	// InvalidAttributeID marks intrinsic computed fields such as row count.
	AttributeID AttributeID `json:"attribute_id"`
}

// IsComputed reports whether the field is an intrinsic computed field with no
// backing attribute.
func (f SchedulableField) IsComputed() bool {
	return f.AttributeID == InvalidAttributeID
}

// ParameterItem describes one catalog entry regardless of attachment state.
// Exactly one of Field / Descriptor is meaningful, discriminated by Attached:
// an attached entry carries the FieldID of an existing schedule field, a
// detached entry carries the SchedulableField descriptor to attach.
type ParameterItem struct {
	Name        string           `json:"name"`
	Attached    bool             `json:"attached"`
	Field       FieldID          `json:"field_id,omitempty"`
	Descriptor  SchedulableField `json:"descriptor,omitempty"`
	IsScheduled bool             `json:"is_scheduled"`
}

// ExistingField builds a ParameterItem referencing a field already attached
// to a schedule definition.
func ExistingField(name string, id FieldID) ParameterItem {
	return ParameterItem{Name: name, Attached: true, Field: id, IsScheduled: true}
}

// NewField builds a ParameterItem carrying a candidate descriptor that has
// not been attached yet.
func NewField(descriptor SchedulableField) ParameterItem {
	return ParameterItem{Name: descriptor.Name, Attached: false, Descriptor: descriptor}
}

// ParameterData is the payload returned by LoadParameterData: the candidate
// fields still available for a schedule, the fields already scheduled in
// order, and the display name of the governing category.
type ParameterData struct {
	Available    []ParameterItem `json:"available"`
	Scheduled    []ParameterItem `json:"scheduled"`
	CategoryName string          `json:"category_name"`
}
