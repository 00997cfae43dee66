package models

import "strings"

// RenameItem is one pending value change for a single element's attribute,
// produced by a preview step and consumed once by the mutation engine.
type RenameItem struct {
	ElementID ElementID `json:"element_id"`
	// AttributeName is the display name the attribute is looked up by.
	AttributeName string `json:"attribute_name"`
	Original      string `json:"original"`
	New           string `json:"new"`
	// IsTypeAttribute marks values resolved from the companion type; writing
	// them changes every element of that type.
	IsTypeAttribute bool `json:"is_type_attribute"`
	// ElementName is carried for preview display only.
	ElementName string `json:"element_name,omitempty"`
}

// Unchanged reports whether applying the item would be a no-op. Unchanged
// items are skipped before the batch starts and never counted.
func (r RenameItem) Unchanged() bool {
	return r.Original == r.New
}

// MutationResult aggregates the outcome of one batch. The engine keeps counts
// and the most recent error only; callers needing per-item diagnostics must
// capture them before submitting the batch.
type MutationResult struct {
	SuccessCount int    `json:"success_count"`
	FailCount    int    `json:"fail_count"`
	LastError    string `json:"last_error,omitempty"`
}

// RenameOption is one column of a projected table offered as a rename
// target. IsTypeAttribute mirrors the column's type-fallback flag: renames
// through such a column cascade to every element of the type.
type RenameOption struct {
	Name            string `json:"name"`
	IsTypeAttribute bool   `json:"is_type_attribute"`
}

// RenameTransform is the find/replace + prefix/suffix rule applied to build
// rename previews from a projected table.
type RenameTransform struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
	Prefix  string `json:"prefix"`
	Suffix  string `json:"suffix"`
}

// Apply runs the transform over one original value.
func (tr RenameTransform) Apply(original string) string {
	result := original
	if tr.Find != "" {
		result = strings.ReplaceAll(result, tr.Find, tr.Replace)
	}
	return tr.Prefix + result + tr.Suffix
}
