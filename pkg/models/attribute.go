package models

// StorageKind is the primitive representation of an attribute value.
type StorageKind int

const (
	// KindNone marks attributes with no stored value.
	KindNone StorageKind = iota
	// KindText stores a raw string.
	KindText
	// KindInteger stores a signed integer.
	KindInteger
	// KindReal stores a floating-point number, usually unit-bearing.
	KindReal
	// KindReference stores the id of another element.
	KindReference
)

// String returns the lowercase kind name used in logs and error messages.
func (k StorageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindReference:
		return "reference"
	default:
		return "none"
	}
}
