// Package catalog computes, per schedule, which attributes are legal to add
// as fields and which are already attached.
package catalog

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// DefaultSampleLimit bounds how many category elements are inspected when
// deciding whether a user-defined attribute is actually carried.
const DefaultSampleLimit = 25

// Catalog answers field-eligibility questions against one host document.
type Catalog struct {
	doc         host.Document
	logger      *zap.Logger
	sampleLimit int
}

// New creates a Catalog. sampleLimit <= 0 selects DefaultSampleLimit.
func New(doc host.Document, logger *zap.Logger, sampleLimit int) *Catalog {
	if sampleLimit <= 0 {
		sampleLimit = DefaultSampleLimit
	}
	return &Catalog{
		doc:         doc,
		logger:      logger.Named("catalog"),
		sampleLimit: sampleLimit,
	}
}

// AvailableFields returns the candidate fields that may still be added to the
// definition, excluding attributes already scheduled, sorted by display name
// case-insensitively.
func (c *Catalog) AvailableFields(def host.ScheduleDefinition, alreadyScheduled map[models.AttributeID]bool) []models.SchedulableField {
	categoryID, hasCategory := def.CategoryID()

	var available []models.SchedulableField
	for _, candidate := range def.SchedulableFields() {
		if c.eligible(candidate, categoryID, hasCategory, alreadyScheduled) {
			available = append(available, candidate)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		return strings.ToLower(available[i].Name) < strings.ToLower(available[j].Name)
	})
	return available
}

// ScheduledFields returns the definition's attached fields, in field order,
// as catalog items. Hidden fields are included so that applying the returned
// list back to the definition is a no-op.
func (c *Catalog) ScheduledFields(def host.ScheduleDefinition) []models.ParameterItem {
	var scheduled []models.ParameterItem
	for _, fieldID := range def.FieldOrder() {
		field, ok := def.Field(fieldID)
		if !ok {
			continue
		}
		scheduled = append(scheduled, models.ExistingField(field.Name(), field.FieldID()))
	}
	return scheduled
}

// ScheduledAttributeIDs collects the attribute ids already bound to attached
// fields, the exclusion set for AvailableFields.
func (c *Catalog) ScheduledAttributeIDs(def host.ScheduleDefinition) map[models.AttributeID]bool {
	ids := make(map[models.AttributeID]bool)
	for _, fieldID := range def.FieldOrder() {
		field, ok := def.Field(fieldID)
		if !ok {
			continue
		}
		if attrID := field.AttributeID(); attrID != models.InvalidAttributeID {
			ids[attrID] = true
		}
	}
	return ids
}

// eligible applies the per-candidate rule set. Intrinsic computed fields
// (invalid sentinel id) are always eligible; everything else is checked
// against the scheduled set and, when a single category governs the
// schedule, against what that category can actually carry.
func (c *Catalog) eligible(candidate models.SchedulableField, categoryID models.CategoryID, hasCategory bool, alreadyScheduled map[models.AttributeID]bool) bool {
	attrID := candidate.AttributeID

	if attrID == models.InvalidAttributeID {
		return true
	}
	if alreadyScheduled[attrID] {
		return false
	}
	if !hasCategory {
		// Multi-category schedule: no binding check is possible.
		return true
	}

	filterable, filterableKnown := c.doc.FilterableAttributes(categoryID)

	if attrID.IsIntrinsic() {
		if !filterableKnown {
			return true
		}
		return containsAttribute(filterable, attrID)
	}

	if c.categoryCarries(categoryID, attrID) {
		return true
	}
	return filterableKnown && containsAttribute(filterable, attrID)
}

// categoryCarries samples instances of the category (and their companion
// types) for the attribute id.
func (c *Catalog) categoryCarries(categoryID models.CategoryID, attrID models.AttributeID) bool {
	sampled := 0
	for _, element := range c.doc.ElementsOfCategory(categoryID) {
		if sampled >= c.sampleLimit {
			break
		}
		sampled++

		if elementCarries(element, attrID) {
			return true
		}
		if typeID, ok := element.TypeID(); ok && typeID.IsValid() {
			if typeElem, ok := c.doc.Element(typeID); ok && elementCarries(typeElem, attrID) {
				return true
			}
		}
	}
	return false
}

func elementCarries(element host.Element, attrID models.AttributeID) bool {
	for _, attr := range element.Attributes() {
		if attr.ID() == attrID {
			return true
		}
	}
	return false
}

func containsAttribute(ids []models.AttributeID, id models.AttributeID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
