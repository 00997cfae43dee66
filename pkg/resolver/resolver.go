// Package resolver maps abstract attribute references to concrete, typed
// value handles on specific elements, honoring the instance-to-type fallback
// the host document uses for attribute storage.
package resolver

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/rk-tools/schedule-engine/pkg/apperrors"
	"github.com/rk-tools/schedule-engine/pkg/host"
	"github.com/rk-tools/schedule-engine/pkg/models"
)

// Resolution is the outcome of a successful resolve: the display value and
// whether it came from the element's companion type rather than the instance.
type Resolution struct {
	Value    string
	FromType bool
}

// Resolver resolves attribute references against one host document.
type Resolver struct {
	doc    host.Document
	logger *zap.Logger
}

// New creates a Resolver bound to a document.
func New(doc host.Document, logger *zap.Logger) *Resolver {
	return &Resolver{
		doc:    doc,
		logger: logger.Named("resolver"),
	}
}

// Resolve finds the attribute on the element (or, failing that, on its
// companion type) and coerces its value to a display string. The second
// return is false when no tier located the attribute.
func (r *Resolver) Resolve(element host.Element, id models.AttributeID) (Resolution, bool) {
	if attr, ok := r.lookup(element, id); ok {
		return Resolution{Value: r.formatValue(attr)}, true
	}
	typeElem, ok := r.companionType(element)
	if !ok {
		return Resolution{}, false
	}
	if attr, ok := r.lookup(typeElem, id); ok {
		return Resolution{Value: r.formatValue(attr), FromType: true}, true
	}
	return Resolution{}, false
}

// SetValue finds a writable attribute using the same tier search as Resolve
// and writes the string value coerced per storage kind. It returns
// apperrors.ErrNotFound, ErrReadOnly, ErrTypeMismatch or ErrUnsupportedKind
// on failure.
func (r *Resolver) SetValue(element host.Element, id models.AttributeID, value string) error {
	attr, ok := r.lookup(element, id)
	if !ok {
		if typeElem, tok := r.companionType(element); tok {
			attr, ok = r.lookup(typeElem, id)
		}
	}
	if !ok {
		return fmt.Errorf("attribute %d on element %d: %w", id, element.ID(), apperrors.ErrNotFound)
	}
	return r.write(attr, value)
}

// SetValueByName writes an attribute located by display name. Instance
// attributes win unless isType forces the companion type; the type is also
// tried when the instance has no attribute of that name.
func (r *Resolver) SetValueByName(element host.Element, name string, isType bool, value string) error {
	attr, ok := element.AttributeByName(name)
	if !ok || isType {
		if typeElem, tok := r.companionType(element); tok {
			if typeAttr, tfound := typeElem.AttributeByName(name); tfound {
				attr, ok = typeAttr, true
			}
		}
	}
	if !ok {
		return fmt.Errorf("attribute %q on element %d: %w", name, element.ID(), apperrors.ErrNotFound)
	}
	return r.write(attr, value)
}

// lookup runs the instance-side resolution tiers: intrinsic id lookup,
// definition-name lookup, then a linear id scan covering stale definitions
// whose names no longer match.
func (r *Resolver) lookup(element host.Element, id models.AttributeID) (host.Attribute, bool) {
	if id.IsIntrinsic() {
		if attr, ok := element.IntrinsicAttribute(id); ok {
			return attr, true
		}
	} else if id.IsUserDefined() {
		if def, ok := r.doc.AttributeDefinition(id); ok {
			if attr, ok := element.AttributeByName(def.Name()); ok {
				return attr, true
			}
		}
	}
	for _, attr := range element.Attributes() {
		if attr.ID() == id {
			return attr, true
		}
	}
	return nil, false
}

func (r *Resolver) companionType(element host.Element) (host.Element, bool) {
	typeID, ok := element.TypeID()
	if !ok || !typeID.IsValid() {
		return nil, false
	}
	return r.doc.Element(typeID)
}

// formatValue coerces an attribute value to its display string: raw text,
// decimal integers, unit-aware reals (raw numeric fallback), and referenced
// element names (empty for null or dangling references).
func (r *Resolver) formatValue(attr host.Attribute) string {
	switch attr.Kind() {
	case models.KindText:
		return attr.Text()
	case models.KindInteger:
		return strconv.FormatInt(attr.Integer(), 10)
	case models.KindReal:
		if formatted, ok := attr.Formatted(); ok {
			return formatted
		}
		return strconv.FormatFloat(attr.Real(), 'g', -1, 64)
	case models.KindReference:
		ref := attr.Reference()
		if !ref.IsValid() {
			return ""
		}
		target, ok := r.doc.Element(ref)
		if !ok {
			return ""
		}
		return target.Name()
	default:
		return ""
	}
}

// write coerces the incoming string per storage kind and applies it.
func (r *Resolver) write(attr host.Attribute, value string) error {
	if attr.ReadOnly() {
		return fmt.Errorf("attribute %q: %w", attr.Name(), apperrors.ErrReadOnly)
	}

	switch attr.Kind() {
	case models.KindText:
		return attr.SetText(value)

	case models.KindInteger:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("attribute %q: %q as integer: %w", attr.Name(), value, apperrors.ErrTypeMismatch)
		}
		return attr.SetInteger(n)

	case models.KindReal:
		// Unit-aware parse first so entries like "2.5 m" land correctly.
		if attr.SetRealFromString(value) {
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("attribute %q: %q as real: %w", attr.Name(), value, apperrors.ErrTypeMismatch)
		}
		return attr.SetReal(f)

	case models.KindReference:
		return fmt.Errorf("attribute %q: %w", attr.Name(), apperrors.ErrUnsupportedKind)

	default:
		return fmt.Errorf("attribute %q: %w", attr.Name(), apperrors.ErrUnsupportedKind)
	}
}
