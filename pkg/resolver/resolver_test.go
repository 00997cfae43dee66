package resolver

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/models"
	"github.com/rk-tools/schedule-engine/pkg/testhelpers"
)

const (
	catDoors = models.CategoryID(10)

	attrMark    = models.AttributeID(-100)
	attrComment = models.AttributeID(501)
	attrWidth   = models.AttributeID(502)
	attrLevel   = models.AttributeID(-101)
)

func TestResolveInstanceTiers(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	doc.AddAttributeDefinition(attrComment, "Comments")

	el := doc.AddElement(1, "Door 1", catDoors)
	el.AddText(attrMark, "Mark", "D-01")
	el.AddText(attrComment, "Comments", "keep")

	r := New(doc, zap.NewNop())

	tests := []struct {
		name string
		id   models.AttributeID
		want string
	}{
		{"intrinsic id", attrMark, "D-01"},
		{"definition name", attrComment, "keep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.Resolve(el, tt.id)
			if !ok {
				t.Fatalf("Resolve(%d) not found", tt.id)
			}
			if res.Value != tt.want {
				t.Errorf("Resolve(%d) = %q, want %q", tt.id, res.Value, tt.want)
			}
			if res.FromType {
				t.Errorf("Resolve(%d) reported type fallback for an instance attribute", tt.id)
			}
		})
	}
}

func TestResolveStaleDefinitionFallsBackToScan(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	// The definition was renamed; the element still carries the attribute
	// under its old display name, findable only by id scan.
	doc.AddAttributeDefinition(attrComment, "Comments (renamed)")

	el := doc.AddElement(1, "Door 1", catDoors)
	el.AddText(attrComment, "Comments", "survives rename")

	r := New(doc, zap.NewNop())
	res, ok := r.Resolve(el, attrComment)
	if !ok {
		t.Fatal("Resolve did not reach the id-scan tier")
	}
	if res.Value != "survives rename" {
		t.Errorf("Resolve = %q, want %q", res.Value, "survives rename")
	}
}

func TestResolveTypeFallback(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	doc.AddAttributeDefinition(attrWidth, "Width")

	typ := doc.AddElement(100, "Single-Flush", catDoors)
	typ.AddReal(attrWidth, "Width", 0.9, "m")

	el := doc.AddTypedElement(1, "Door 1", catDoors, 100)
	el.AddText(attrMark, "Mark", "D-01")

	r := New(doc, zap.NewNop())

	res, ok := r.Resolve(el, attrWidth)
	if !ok {
		t.Fatal("Resolve did not fall back to the companion type")
	}
	if !res.FromType {
		t.Error("Resolve did not flag the value as type-sourced")
	}
	if res.Value != "0.9 m" {
		t.Errorf("Resolve = %q, want %q", res.Value, "0.9 m")
	}

	// Instance attributes shadow type attributes of the same id.
	el.AddReal(attrWidth, "Width", 1.2, "m")
	res, ok = r.Resolve(el, attrWidth)
	if !ok || res.FromType {
		t.Fatalf("Resolve = (%+v, %v), want instance-sourced hit", res, ok)
	}
	if res.Value != "1.2 m" {
		t.Errorf("Resolve = %q, want %q", res.Value, "1.2 m")
	}
}

func TestResolveNotFound(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	el := doc.AddElement(1, "Door 1", catDoors)

	r := New(doc, zap.NewNop())
	if _, ok := r.Resolve(el, attrLevel); ok {
		t.Fatal("Resolve reported a hit for an absent attribute")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	el := doc.AddElement(1, "Door 1", catDoors)
	el.AddInteger(attrMark, "Fire Rating", 60)

	r := New(doc, zap.NewNop())
	first, ok := r.Resolve(el, attrMark)
	if !ok {
		t.Fatal("Resolve missed")
	}
	for i := 0; i < 5; i++ {
		again, ok := r.Resolve(el, attrMark)
		if !ok || again != first {
			t.Fatalf("Resolve #%d = (%+v, %v), want (%+v, true)", i, again, ok, first)
		}
	}
}

func TestFormatValueKinds(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	doc.AddElement(200, "Level 2", catDoors)

	el := doc.AddElement(1, "Door 1", catDoors)
	el.AddInteger(-110, "Fire Rating", 90)
	el.AddReal(-111, "Height", 2.1, "m")
	el.AddReal(-112, "Factor", 0.5, "")
	el.AddAttribute(testhelpers.AttributeSpec{
		ID: -113, Name: "Level", Kind: models.KindReference, Reference: 200,
	})
	el.AddAttribute(testhelpers.AttributeSpec{
		ID: -114, Name: "Dangling", Kind: models.KindReference, Reference: 999,
	})
	el.AddAttribute(testhelpers.AttributeSpec{
		ID: -115, Name: "Unset", Kind: models.KindReference, Reference: models.InvalidElementID,
	})

	r := New(doc, zap.NewNop())

	tests := []struct {
		name string
		id   models.AttributeID
		want string
	}{
		{"integer", -110, "90"},
		{"real with units", -111, "2.1 m"},
		{"real without units", -112, "0.5"},
		{"reference resolves to name", -113, "Level 2"},
		{"dangling reference", -114, ""},
		{"null reference", -115, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.Resolve(el, tt.id)
			if !ok {
				t.Fatalf("Resolve(%d) not found", tt.id)
			}
			if res.Value != tt.want {
				t.Errorf("Resolve(%d) = %q, want %q", tt.id, res.Value, tt.want)
			}
		})
	}
}

func TestSetValueCoercion(t *testing.T) {
	tests := []struct {
		name    string
		spec    testhelpers.AttributeSpec
		value   string
		wantErr error
		check   func(t *testing.T, attr *testhelpers.MemAttribute)
	}{
		{
			name:  "text",
			spec:  testhelpers.AttributeSpec{ID: attrComment, Name: "Comments", Kind: models.KindText},
			value: "updated",
			check: func(t *testing.T, attr *testhelpers.MemAttribute) {
				if attr.Text() != "updated" {
					t.Errorf("Text = %q, want %q", attr.Text(), "updated")
				}
			},
		},
		{
			name:  "integer",
			spec:  testhelpers.AttributeSpec{ID: attrComment, Name: "Count", Kind: models.KindInteger},
			value: "42",
			check: func(t *testing.T, attr *testhelpers.MemAttribute) {
				if attr.Integer() != 42 {
					t.Errorf("Integer = %d, want 42", attr.Integer())
				}
			},
		},
		{
			name:    "integer parse failure",
			spec:    testhelpers.AttributeSpec{ID: attrComment, Name: "Count", Kind: models.KindInteger},
			value:   "forty-two",
			wantErr: apperrors.ErrTypeMismatch,
		},
		{
			name:  "real with units",
			spec:  testhelpers.AttributeSpec{ID: attrComment, Name: "Width", Kind: models.KindReal, Unit: "m"},
			value: "2.5 m",
			check: func(t *testing.T, attr *testhelpers.MemAttribute) {
				if attr.Real() != 2.5 {
					t.Errorf("Real = %g, want 2.5", attr.Real())
				}
			},
		},
		{
			name:  "real plain number",
			spec:  testhelpers.AttributeSpec{ID: attrComment, Name: "Width", Kind: models.KindReal, Unit: "m"},
			value: "1.75",
			check: func(t *testing.T, attr *testhelpers.MemAttribute) {
				if attr.Real() != 1.75 {
					t.Errorf("Real = %g, want 1.75", attr.Real())
				}
			},
		},
		{
			name:    "real parse failure",
			spec:    testhelpers.AttributeSpec{ID: attrComment, Name: "Width", Kind: models.KindReal},
			value:   "wide",
			wantErr: apperrors.ErrTypeMismatch,
		},
		{
			name:    "read-only",
			spec:    testhelpers.AttributeSpec{ID: attrComment, Name: "Area", Kind: models.KindReal, ReadOnly: true},
			value:   "3",
			wantErr: apperrors.ErrReadOnly,
		},
		{
			name:    "reference unsupported",
			spec:    testhelpers.AttributeSpec{ID: attrComment, Name: "Level", Kind: models.KindReference},
			value:   "Level 2",
			wantErr: apperrors.ErrUnsupportedKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testhelpers.NewMemDocument()
			doc.AddCategory(catDoors, "Doors")
			doc.AddAttributeDefinition(attrComment, tt.spec.Name)
			el := doc.AddElement(1, "Door 1", catDoors)
			attr := el.AddAttribute(tt.spec)

			r := New(doc, zap.NewNop())
			err := r.SetValue(el, tt.spec.ID, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SetValue error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetValue: %v", err)
			}
			tt.check(t, attr)
		})
	}
}

func TestSetValueNotFound(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")
	el := doc.AddElement(1, "Door 1", catDoors)

	r := New(doc, zap.NewNop())
	err := r.SetValue(el, attrWidth, "2.5")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("SetValue error = %v, want %v", err, apperrors.ErrNotFound)
	}
}

func TestSetValueByName(t *testing.T) {
	doc := testhelpers.NewMemDocument()
	doc.AddCategory(catDoors, "Doors")

	typ := doc.AddElement(100, "Single-Flush", catDoors)
	typeAttr := typ.AddText(attrComment, "Comments", "type original")
	typeOnly := typ.AddText(attrWidth, "Model", "A-100")

	el := doc.AddTypedElement(1, "Door 1", catDoors, 100)
	instAttr := el.AddText(attrComment, "Comments", "instance original")

	r := New(doc, zap.NewNop())

	// Instance attribute wins when isType is false.
	if err := r.SetValueByName(el, "Comments", false, "via instance"); err != nil {
		t.Fatalf("SetValueByName: %v", err)
	}
	if instAttr.Text() != "via instance" || typeAttr.Text() != "type original" {
		t.Errorf("instance write touched (%q, %q)", instAttr.Text(), typeAttr.Text())
	}

	// isType forces the companion type even when the instance has the name.
	if err := r.SetValueByName(el, "Comments", true, "via type"); err != nil {
		t.Fatalf("SetValueByName: %v", err)
	}
	if typeAttr.Text() != "via type" || instAttr.Text() != "via instance" {
		t.Errorf("type write touched (%q, %q)", instAttr.Text(), typeAttr.Text())
	}

	// A name missing on the instance falls back to the type.
	if err := r.SetValueByName(el, "Model", false, "B-200"); err != nil {
		t.Fatalf("SetValueByName: %v", err)
	}
	if typeOnly.Text() != "B-200" {
		t.Errorf("fallback write = %q, want %q", typeOnly.Text(), "B-200")
	}

	if err := r.SetValueByName(el, "No Such", false, "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("SetValueByName error = %v, want %v", err, apperrors.ErrNotFound)
	}
}
