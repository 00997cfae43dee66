package models

import (
	"reflect"
	"testing"
)

func TestAttributeIDClassification(t *testing.T) {
	tests := []struct {
		id          AttributeID
		intrinsic   bool
		userDefined bool
	}{
		{InvalidAttributeID, false, false},
		{-100, true, false},
		{0, false, false},
		{42, false, true},
	}
	for _, tt := range tests {
		if got := tt.id.IsIntrinsic(); got != tt.intrinsic {
			t.Errorf("AttributeID(%d).IsIntrinsic() = %v, want %v", tt.id, got, tt.intrinsic)
		}
		if got := tt.id.IsUserDefined(); got != tt.userDefined {
			t.Errorf("AttributeID(%d).IsUserDefined() = %v, want %v", tt.id, got, tt.userDefined)
		}
	}
}

func TestElementIDIsValid(t *testing.T) {
	if InvalidElementID.IsValid() {
		t.Error("invalid sentinel reported valid")
	}
	if ElementID(-5).IsValid() {
		t.Error("negative id reported valid")
	}
	if !ElementID(0).IsValid() || !ElementID(7).IsValid() {
		t.Error("non-negative id reported invalid")
	}
}

func TestRenameTransformApply(t *testing.T) {
	tests := []struct {
		name      string
		transform RenameTransform
		original  string
		want      string
	}{
		{"identity", RenameTransform{}, "D-01", "D-01"},
		{"replace", RenameTransform{Find: "D-", Replace: "DOOR-"}, "D-01", "DOOR-01"},
		{"replace all occurrences", RenameTransform{Find: "0", Replace: "9"}, "D-00", "D-99"},
		{"delete match", RenameTransform{Find: "-01"}, "D-01", "D"},
		{"prefix suffix", RenameTransform{Prefix: "N.", Suffix: ".R1"}, "D-01", "N.D-01.R1"},
		{"combined", RenameTransform{Find: "D", Replace: "W", Prefix: "[", Suffix: "]"}, "D-01", "[W-01]"},
		{"empty find leaves value", RenameTransform{Replace: "X"}, "D-01", "D-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.transform.Apply(tt.original); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}

func TestRenameItemUnchanged(t *testing.T) {
	if !(RenameItem{Original: "a", New: "a"}).Unchanged() {
		t.Error("identical values reported changed")
	}
	if (RenameItem{Original: "a", New: "b"}).Unchanged() {
		t.Error("different values reported unchanged")
	}
}

func TestSortCriterionActive(t *testing.T) {
	if (SortCriterion{Column: ""}).Active() || (SortCriterion{Column: SortNone}).Active() {
		t.Error("inactive criterion reported active")
	}
	if !(SortCriterion{Column: "Mark"}).Active() {
		t.Error("named criterion reported inactive")
	}
}

func TestScheduleTableAppendRowPads(t *testing.T) {
	table := NewScheduleTable(10, []string{"A", "B", "C"})
	table.AppendRow([]string{"1"})
	table.AppendRow([]string{"1", "2", "3", "4"})

	want := [][]string{{"1", "", ""}, {"1", "2", "3"}}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Fatalf("Rows = %v, want %v", table.Rows, want)
	}
}

func TestScheduleTableClone(t *testing.T) {
	table := NewScheduleTable(10, []string{"A"})
	table.AppendRow([]string{"x"})
	table.AttributeIDs["A"] = 5
	table.TypeFallback["A"] = true

	clone := table.Clone()
	clone.Rows[0][0] = "mutated"
	clone.Columns[0] = "Z"
	clone.AttributeIDs["A"] = 9
	clone.TypeFallback["A"] = false

	if table.Rows[0][0] != "x" || table.Columns[0] != "A" {
		t.Error("clone shares row or column storage")
	}
	if table.AttributeIDs["A"] != 5 || !table.TypeFallback["A"] {
		t.Error("clone shares map storage")
	}
}

func TestParameterItemConstructors(t *testing.T) {
	existing := ExistingField("Mark", 3)
	if !existing.Attached || existing.Field != 3 || !existing.IsScheduled {
		t.Errorf("ExistingField = %+v", existing)
	}

	fresh := NewField(SchedulableField{Name: "Width", AttributeID: 7})
	if fresh.Attached || fresh.Descriptor.AttributeID != 7 || fresh.Name != "Width" {
		t.Errorf("NewField = %+v", fresh)
	}
}
