package models

// SortNone is the sentinel column name that deactivates a sort level.
// Levels carrying it are skipped, not treated as errors.
const SortNone = "(none)"

// Display names some consumers use for element-identity keys. When the sort
// source is a list of element records rather than a projected table, these
// aliases resolve to the record's Number and Name fields.
const (
	SortAliasElementNumber = "Element Number"
	SortAliasElementName   = "Element Name"
)

// SortCriterion is one level of a multi-key sort.
type SortCriterion struct {
	Column    string `json:"column" yaml:"column"`
	Ascending bool   `json:"ascending" yaml:"ascending"`
}

// Active reports whether the level participates in sorting.
func (c SortCriterion) Active() bool {
	return c.Column != "" && c.Column != SortNone
}

// ElementRecord is the flat identity view of an element used when sorting an
// object list instead of a projected table.
type ElementRecord struct {
	ID     ElementID `json:"id"`
	Number string    `json:"number"`
	Name   string    `json:"name"`
}
