// Package jsonutil tolerantly decodes JSON written by external producers.
// The sort-settings JSONB column is occasionally populated by migration
// scripts and admin tooling that encode strings as numbers or booleans as
// strings; these helpers normalize such values instead of failing the load.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleString converts a raw JSON value to a string, accepting strings,
// numbers and booleans. Returns "" for null or empty input.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FlexibleBool converts a raw JSON value to a bool, accepting booleans, the
// strings "true"/"false"/"1"/"0" and numbers (non-zero is true). Returns
// false for null, empty or unparseable input.
func FlexibleBool(raw json.RawMessage) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return boolVal
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		parsed, err := strconv.ParseBool(strVal)
		return err == nil && parsed
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal != 0
	}

	return false
}
